package analyze

// Options tunes one analysis run. Zero values are replaced field-by-field
// with the defaults below; the struct is never mutated after the run starts.
type Options struct {
	// ChunkSize is the soft upper bound on chunk text length in characters.
	ChunkSize int `json:"chunkSize,omitempty"`
	// TopK bounds the number of chunks the retrieval mode keeps.
	TopK int `json:"topK,omitempty"`
	// MaxSubcalls caps the number of per-chunk oracle calls in the
	// recursive modes.
	MaxSubcalls int `json:"maxSubcalls,omitempty"`
	// BaseMaxChars bounds the concatenated context in base mode.
	BaseMaxChars int `json:"baseMaxChars,omitempty"`
	// Concurrency bounds how many sub-calls are in flight at once.
	Concurrency int `json:"concurrency,omitempty"`
}

const (
	defaultChunkSize    = 1800
	defaultTopK         = 8
	defaultMaxSubcalls  = 24
	defaultBaseMaxChars = 12000
	defaultConcurrency  = 6
)

func (o Options) withDefaults() Options {
	if o.ChunkSize <= 0 {
		o.ChunkSize = defaultChunkSize
	}
	if o.TopK <= 0 {
		o.TopK = defaultTopK
	}
	if o.MaxSubcalls <= 0 {
		o.MaxSubcalls = defaultMaxSubcalls
	}
	if o.BaseMaxChars <= 0 {
		o.BaseMaxChars = defaultBaseMaxChars
	}
	if o.Concurrency <= 0 {
		o.Concurrency = defaultConcurrency
	}
	return o
}
