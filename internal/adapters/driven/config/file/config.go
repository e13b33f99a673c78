package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the tunable settings for ingestion and querying.
type Config struct {
	DataDir  string         `toml:"data_dir,omitempty"`
	Chunking ChunkingConfig `toml:"chunking"`
	Ingest   IngestConfig   `toml:"ingest"`
	Query    QueryConfig    `toml:"query"`
}

// ChunkingConfig controls how normalized text is cut into chunks.
type ChunkingConfig struct {
	TargetSize int `toml:"target_size"`
	Overlap    int `toml:"overlap"`
}

// IngestConfig controls acceptance rules during ingestion.
type IngestConfig struct {
	MinTextChars int `toml:"min_text_chars"`
}

// QueryConfig controls query planning and result filtering.
type QueryConfig struct {
	AnchorTerms        []string `toml:"anchor_terms"`
	BaselineTerms      []string `toml:"baseline_terms"`
	Stopwords          []string `toml:"stopwords"`
	BoilerplateMarkers []string `toml:"boilerplate_markers"`
	MaxORTerms         int      `toml:"max_or_terms"`
	AnswerFetchFactor  int      `toml:"answer_fetch_factor"`
	SearchFetchFactor  int      `toml:"search_fetch_factor"`
}

// DefaultConfig returns the built-in settings. The query vocabularies
// are tuned for a Reformation-era theology corpus; override them in
// config.toml for other material.
func DefaultConfig() *Config {
	return &Config{
		Chunking: ChunkingConfig{
			TargetSize: 2500,
			Overlap:    200,
		},
		Ingest: IngestConfig{
			MinTextChars: 200,
		},
		Query: QueryConfig{
			AnchorTerms: []string{
				"predestination", "predestinate", "election", "elect",
				"reprobate", "reprobation", "grace", "faith",
				"justification", "providence", "will", "free",
				"responsibility", "sin", "corruption", "merit",
				"works", "calling",
			},
			BaselineTerms: []string{
				"predestination", "election", "grace", "justification", "faith",
			},
			Stopwords: []string{
				"the", "a", "an", "and", "or", "not", "to", "of", "in", "on",
				"for", "with", "by", "as", "at", "from",
				"is", "are", "was", "were", "be", "been", "being",
				"does", "do", "did", "that", "this", "these", "those",
				"it", "its", "he", "she", "they", "them", "his", "her",
				"their", "you", "your", "i", "we", "our", "us",
				"what", "how", "why", "who", "whom", "which", "when", "where",
				"volume", "volumes", "book", "books", "chapter", "chapters",
				"argue", "argues", "connect", "connection",
				"summarize", "summary", "doctrine",
				"relate", "relates", "relation", "within", "about",
			},
			BoilerplateMarkers: []string{
				"project gutenberg",
				"start of the project gutenberg ebook",
				"transcriber's note",
				"gutenberg license",
			},
			MaxORTerms:        12,
			AnswerFetchFactor: 60,
			SearchFetchFactor: 8,
		},
	}
}

// Store loads and persists the config file.
type Store struct {
	mu       sync.RWMutex
	filePath string
	config   *Config
}

// NewStore creates a config store rooted at configDir.
// If configDir is empty, defaults to ~/.corpus.
func NewStore(configDir string) (*Store, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".corpus")
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	s := &Store{
		filePath: filepath.Join(configDir, "config.toml"),
	}

	if err := s.Load(); err != nil {
		return nil, err
	}

	return s, nil
}

// Config returns the current settings. The returned value is shared;
// callers must not mutate it.
func (s *Store) Config() *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// Load reads the TOML file, layering it over the defaults. A missing
// file yields pure defaults.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := DefaultConfig()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.config = cfg
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	s.config = cfg
	return nil
}

// Save persists the current settings to disk.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(s.config)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	// Write with restricted permissions
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Path returns the configuration file path.
func (s *Store) Path() string {
	return s.filePath
}
