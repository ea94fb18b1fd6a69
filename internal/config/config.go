package config

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults matching the knowledge-base processing parameters.
const (
	DefaultDatabasePath   = "knowledge_base.db"
	DefaultChunkSize      = 1000
	DefaultChunkOverlap   = 200
	DefaultRetrievalLimit = 10
	DefaultGenModel       = "gemini-2.5-flash"
	DefaultPort           = "8080"
)

// DefaultModelFallbacks is the fixed preference order tried after the
// configured model when resolving which Gemini model to use.
var DefaultModelFallbacks = []string{
	"gemini-2.5-flash",
	"gemini-2.0-flash",
	"gemini-flash-latest",
	"gemini-pro-latest",
}

// Tuning holds the knobs that live in the optional YAML file rather than
// the environment: chunking parameters and the model preference list.
type Tuning struct {
	ChunkSize      int      `yaml:"chunk_size"`
	ChunkOverlap   int      `yaml:"chunk_overlap"`
	RetrievalLimit int      `yaml:"retrieval_limit"`
	ModelFallbacks []string `yaml:"model_fallbacks"`
}

// Config carries everything the application needs at startup.
type Config struct {
	DatabasePath  string
	AIAPIKey      string
	GenModel      string
	YouTubeAPIKey string
	Port          string
	MaxUploadMB   int64

	// Optional S3 archive of original uploads; enabled when both AWS keys
	// are present.
	AwsAccessKey string
	AwsSecretKey string
	AwsRegion    string
	BucketName   string

	Tuning Tuning
}

// LoadConfig loads the environment variables (via .env if present) and the
// optional YAML tuning file, and returns the merged config.
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		DatabasePath:  getEnv("KB_DATABASE_PATH", DefaultDatabasePath),
		AIAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GenModel:      getEnv("GEN_MODEL", DefaultGenModel),
		YouTubeAPIKey: getEnv("YOUTUBE_API_KEY", ""),
		Port:          getEnv("PORT", DefaultPort),
		MaxUploadMB:   int64(getEnvInt("MAX_UPLOAD_MB", 100)),
		AwsAccessKey:  getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey:  getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:     getEnv("AWS_REGION", "us-east-2"),
		BucketName:    getEnv("BUCKET_NAME", "omniquery-originals"),
		Tuning:        defaultTuning(),
	}

	tuning, path, err := loadTuning(getEnv("KB_CONFIG_PATH", ""))
	if err != nil {
		log.Printf("WARN: tuning config %s unreadable, using defaults: %v", path, err)
	} else if tuning != nil {
		cfg.Tuning = *tuning
	}

	return cfg
}

// ArchiveEnabled reports whether the S3 origin archive is configured.
func (c *Config) ArchiveEnabled() bool {
	return c.AwsAccessKey != "" && c.AwsSecretKey != ""
}

// loadTuning reads the YAML tuning file. When path is empty it tries
// ./omniquery.yaml, then ~/.config/omniquery/config.yaml; a missing file is
// not an error and yields nil.
func loadTuning(path string) (*Tuning, string, error) {
	candidates := []string{path}
	if path == "" {
		candidates = []string{"omniquery.yaml"}
		if home, err := os.UserHomeDir(); err == nil {
			candidates = append(candidates, filepath.Join(home, ".config", "omniquery", "config.yaml"))
		}
	}

	for _, p := range candidates {
		if p == "" {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, p, err
		}
		t := defaultTuning()
		if err := yaml.Unmarshal(data, &t); err != nil {
			return nil, p, err
		}
		applyTuningDefaults(&t)
		return &t, p, nil
	}
	return nil, "", nil
}

func defaultTuning() Tuning {
	return Tuning{
		ChunkSize:      DefaultChunkSize,
		ChunkOverlap:   DefaultChunkOverlap,
		RetrievalLimit: DefaultRetrievalLimit,
		ModelFallbacks: append([]string(nil), DefaultModelFallbacks...),
	}
}

func applyTuningDefaults(t *Tuning) {
	if t.ChunkSize <= 0 {
		t.ChunkSize = DefaultChunkSize
	}
	if t.ChunkOverlap < 0 {
		t.ChunkOverlap = DefaultChunkOverlap
	}
	if t.RetrievalLimit <= 0 {
		t.RetrievalLimit = DefaultRetrievalLimit
	}
	if len(t.ModelFallbacks) == 0 {
		t.ModelFallbacks = append([]string(nil), DefaultModelFallbacks...)
	}
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}
