package generator

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

const fallbackEncoding = tiktoken.MODEL_CL100K_BASE

// model prefixes tiktoken-go does not map yet
var encodingByPrefix = []struct {
	prefix   string
	encoding string
}{
	{"gpt-4.1", tiktoken.MODEL_O200K_BASE},
	{"gpt-4o", tiktoken.MODEL_O200K_BASE},
	{"o1", tiktoken.MODEL_O200K_BASE},
	{"o3", tiktoken.MODEL_O200K_BASE},
	{"o4", tiktoken.MODEL_O200K_BASE},
}

var useOfflineBPE sync.Once

// TokenCounter estimates the token size of a compiled prompt.
type TokenCounter interface {
	Count(model, text string) (int, error)
}

type encodingResult struct {
	enc *tiktoken.Tiktoken
	err error
}

// TiktokenCounter counts with BPE ranks embedded in the binary, so counting
// never touches the network. Results are cached per model, failures included.
type TiktokenCounter struct {
	mu    sync.Mutex
	cache map[string]encodingResult

	// lookup resolves a model to its encoding; replaced in tests.
	lookup func(model string) (*tiktoken.Tiktoken, error)
}

func NewTiktokenCounter() *TiktokenCounter {
	useOfflineBPE.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})
	return &TiktokenCounter{
		cache:  make(map[string]encodingResult),
		lookup: encodingForModel,
	}
}

func (c *TiktokenCounter) Count(model, text string) (int, error) {
	enc, err := c.encoding(model)
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}

func (c *TiktokenCounter) encoding(model string) (*tiktoken.Tiktoken, error) {
	c.mu.Lock()
	res, ok := c.cache[model]
	c.mu.Unlock()
	if ok {
		return res.enc, res.err
	}

	// Two callers may race on a cold model; both get the same answer.
	enc, err := c.lookup(model)

	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.cache[model]; ok {
		return prev.enc, prev.err
	}
	c.cache[model] = encodingResult{enc: enc, err: err}
	return enc, err
}

func encodingForModel(model string) (*tiktoken.Tiktoken, error) {
	for _, m := range encodingByPrefix {
		if strings.HasPrefix(model, m.prefix) {
			if enc, err := tiktoken.GetEncoding(m.encoding); err == nil {
				return enc, nil
			}
			break
		}
	}
	if enc, err := tiktoken.EncodingForModel(model); err == nil {
		return enc, nil
	}
	return tiktoken.GetEncoding(fallbackEncoding)
}
