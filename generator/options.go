package generator

import "math"

// Platform is a publishing target from the fixed option set.
type Platform string

const (
	PlatformInstagramFeed  Platform = "Instagram (feed)"
	PlatformInstagramReels Platform = "Instagram Reels"
	PlatformFacebookFeed   Platform = "Facebook (feed)"
	PlatformLinkedIn       Platform = "LinkedIn"
	PlatformBlog           Platform = "Blog"
	PlatformYouTubeDesc    Platform = "YouTube (descrição de vídeo)"
	PlatformYouTubeShorts  Platform = "YouTube Shorts"
	PlatformTikTok         Platform = "TikTok (vídeo curto)"
)

// PlatformClass selects the specialization branch of the compiler.
type PlatformClass int

const (
	ClassStatic PlatformClass = iota
	ClassShortVideo
)

func (c PlatformClass) String() string {
	if c == ClassShortVideo {
		return "short_video"
	}
	return "static"
}

type Tone string

type Length string

type Audience string

var platforms = []Platform{
	PlatformInstagramFeed,
	PlatformInstagramReels,
	PlatformFacebookFeed,
	PlatformLinkedIn,
	PlatformBlog,
	PlatformYouTubeDesc,
	PlatformYouTubeShorts,
	PlatformTikTok,
}

var shortVideoPlatforms = map[Platform]bool{
	PlatformInstagramReels: true,
	PlatformYouTubeShorts:  true,
	PlatformTikTok:         true,
}

var tones = []Tone{"Normal", "Informativo", "Inspirador", "Urgente", "Informal", "Educativo"}

var lengths = []Length{"Curto", "Médio", "Longo"}

var audiences = []Audience{
	"Geral",
	"Jovens adultos",
	"Famílias",
	"Idosos",
	"Adolescentes",
	"Empresários",
	"Profissionais da saúde",
}

// Models offered on the configuration surface. The core never validates a model id.
var defaultModels = []string{"gpt-4.1-mini", "gpt-4.1"}

const (
	DefaultModel       = "gpt-4.1-mini"
	DefaultTemperature = 0.7
	TemperatureStep    = 0.05
	MinTemperature     = 0.0
	MaxTemperature     = 1.0
)

func Platforms() []Platform { return append([]Platform(nil), platforms...) }

// ShortVideoPlatforms returns the short-video platforms in option order.
func ShortVideoPlatforms() []Platform {
	var out []Platform
	for _, p := range platforms {
		if shortVideoPlatforms[p] {
			out = append(out, p)
		}
	}
	return out
}

func Tones() []Tone { return append([]Tone(nil), tones...) }

func Lengths() []Length { return append([]Length(nil), lengths...) }

func Audiences() []Audience { return append([]Audience(nil), audiences...) }

func Models() []string { return append([]string(nil), defaultModels...) }

// Classify maps a platform value to its class. It is the only place the
// short-video set is consulted.
func Classify(p Platform) PlatformClass {
	if shortVideoPlatforms[p] {
		return ClassShortVideo
	}
	return ClassStatic
}

func (p Platform) IsShortVideo() bool { return Classify(p) == ClassShortVideo }

func (p Platform) Valid() bool { return contains(platforms, p) }

func (t Tone) Valid() bool { return contains(tones, t) }

func (l Length) Valid() bool { return contains(lengths, l) }

func (a Audience) Valid() bool { return contains(audiences, a) }

// QuantizeTemperature clamps t to [0,1] and snaps it to the 0.05 grid.
func QuantizeTemperature(t float64) float64 {
	if math.IsNaN(t) {
		return DefaultTemperature
	}
	if t < MinTemperature {
		t = MinTemperature
	}
	if t > MaxTemperature {
		t = MaxTemperature
	}
	steps := math.Round(t / TemperatureStep)
	return math.Round(steps*TemperatureStep*100) / 100
}

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
