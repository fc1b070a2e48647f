package generator

import (
	"fmt"
	"strings"
)

// DefaultNiche replaces an empty niche in the system instruction.
const DefaultNiche = "negócios locais"

const systemTemplate = `Você é um especialista em marketing digital com foco em SEO, copywriting e escrita persuasiva.
Você escreve sempre em português do Brasil, em linguagem clara, moderna e escaneável.
Adapte o texto ao nicho informado, ao tipo de público e à plataforma escolhida.
Traga ideias específicas, práticas e aplicáveis para o contexto do cliente.
Nicho do cliente: %s`

const shortVideoBlock = `Além disso, como a plataforma selecionada é de VÍDEO CURTO (Reels / Shorts / TikTok), faça também:

1. Crie uma seção chamada **Ideia de vídeo**, com um resumo em 2–3 linhas do conceito do vídeo.
2. Crie uma seção **Roteiro sugerido**, em formato de tópicos, com:
   - Hook (primeiros 3–5 segundos para prender atenção)
   - Desenvolvimento (o que aparece em seguida, em até 3 blocos)
   - CTA final (o que a pessoa deve fazer depois de ver o vídeo).
3. Crie uma seção **Sugestões de cenas**, listando de 3 a 5 cenas/enquadramentos práticos que podem ser gravados (ex.: close no rosto do profissional, bastidores da clínica, tela de antes/depois, etc.).
4. Crie uma seção **Sugestões de músicas**, indicando 3 a 5 estilos ou tipos de trilha sonora adequados (ex.: “lofi motivacional”, “pop animado”, “trilha relaxante”, etc.), sem citar músicas com direitos autorais específicos.

Mantenha tudo em um único texto, bem organizado em seções, pronto para uso.`

const rulesBlock = `Regras importantes da resposta:
1. Entregue apenas o texto final (sem explicar o passo a passo).
2. Não use aspas envolvendo o texto inteiro.
3. Estruture o conteúdo em parágrafos curtos e, se fizer sentido, use listas ou bullets.`

// Markers of the short-video sub-sections, in emission order.
var ShortVideoMarkers = []string{
	"**Ideia de vídeo**",
	"**Roteiro sugerido**",
	"**Sugestões de cenas**",
	"**Sugestões de músicas**",
}

// RulesHeader opens the closing rules block.
const RulesHeader = "Regras importantes da resposta:"

const (
	ctaOn       = "Inclua uma chamada para ação clara e forte ao final."
	ctaOff      = "Não inclua chamada para ação."
	hashtagsOn  = "Inclua ao final do texto uma lista de hashtags relevantes para esta publicação."
	hashtagsOff = "Não inclua hashtags."
	keywordsFmt = "Palavras-chave obrigatórias para SEO: %s"
	imagesPost  = "Ao final, adicione um subtítulo 'Sugestões de imagens:' e liste de 3 a 5 ideias de imagens específicas para essa publicação, adequadas à plataforma selecionada."
	imagesVideo = "Ao final, adicione um subtítulo 'Sugestões de imagens de apoio:' e liste de 3 a 5 ideias de imagens de apoio para as cenas do vídeo, adequadas à plataforma selecionada."
)

// section is one ordered piece of the user instruction; build returns false to omit it.
type section struct {
	name   string
	bullet bool
	build  func(b Brief, class PlatformClass) (string, bool)
}

// userSections order is the output order.
var userSections = []section{
	{name: "topic", build: func(b Brief, _ PlatformClass) (string, bool) {
		return fmt.Sprintf("Escreva um conteúdo com SEO otimizado sobre o tema: '%s'.", b.Topic), true
	}},
	{name: "platform", bullet: true, build: labeled("Plataforma onde será publicado", func(b Brief) string { return string(b.Platform) })},
	{name: "tone", bullet: true, build: labeled("Tom do texto", func(b Brief) string { return string(b.Tone) })},
	{name: "audience", bullet: true, build: labeled("Público-alvo", func(b Brief) string { return string(b.Audience) })},
	{name: "length", bullet: true, build: labeled("Comprimento desejado", func(b Brief) string { return string(b.Length) })},
	{name: "cta", bullet: true, build: func(b Brief, _ PlatformClass) (string, bool) {
		return pick(b.IncludeCTA, ctaOn, ctaOff), true
	}},
	{name: "hashtags", bullet: true, build: func(b Brief, _ PlatformClass) (string, bool) {
		return pick(b.IncludeHashtags, hashtagsOn, hashtagsOff), true
	}},
	// No negative line here: a missing keywords line is the instruction.
	{name: "keywords", bullet: true, build: func(b Brief, _ PlatformClass) (string, bool) {
		// Trimmed, so whitespace-only keywords omit the line like empty ones.
		kw := strings.TrimSpace(b.Keywords)
		if kw == "" {
			return "", false
		}
		return fmt.Sprintf(keywordsFmt, kw), true
	}},
	{name: "images", bullet: true, build: func(b Brief, class PlatformClass) (string, bool) {
		if !b.IncludeImageSuggestions {
			return "", false
		}
		return pick(class == ClassShortVideo, imagesVideo, imagesPost), true
	}},
	{name: "short_video", build: func(_ Brief, class PlatformClass) (string, bool) {
		return shortVideoBlock, class == ClassShortVideo
	}},
	{name: "rules", build: func(Brief, PlatformClass) (string, bool) {
		return rulesBlock, true
	}},
}

// Sections returns the section names in emission order.
func Sections() []string {
	names := make([]string, 0, len(userSections))
	for _, s := range userSections {
		names = append(names, s.name)
	}
	return names
}

// Compile renders a Brief into the system/user instruction pair. It is pure:
// the same Brief always yields the same Prompt.
func Compile(b Brief) Prompt {
	class := Classify(b.Platform)

	var sb strings.Builder
	prevBullet := false
	for _, s := range userSections {
		frag, ok := s.build(b, class)
		if !ok {
			continue
		}
		switch {
		case s.bullet:
			if !prevBullet && sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString("- ")
			sb.WriteString(frag)
			sb.WriteString("\n")
		default:
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(frag)
			sb.WriteString("\n")
		}
		prevBullet = s.bullet
	}

	return Prompt{
		System: BuildSystemPrompt(b.Niche),
		User:   strings.TrimSpace(sb.String()),
	}
}

// BuildSystemPrompt returns the persona preamble for the given niche.
func BuildSystemPrompt(niche string) string {
	if strings.TrimSpace(niche) == "" {
		niche = DefaultNiche
	}
	return fmt.Sprintf(systemTemplate, niche)
}

func labeled(label string, value func(Brief) string) func(Brief, PlatformClass) (string, bool) {
	return func(b Brief, _ PlatformClass) (string, bool) {
		return label + ": " + value(b), true
	}
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}
