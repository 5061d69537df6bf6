package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3/log"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type serverConfig struct {
	Port        int    `koanf:"port" validate:"required"`
	Mode        string `koanf:"mode" validate:"required"`
	Concurrency int    `koanf:"concurrency" validate:"required"`
	BodyLimit   int    `koanf:"body_limit" validate:"required"`
	AppName     string `koanf:"app_name" validate:"required"`
}

type logLevel string

const (
	Debug logLevel = "debug"
	Info  logLevel = "info"
	Warn  logLevel = "warn"
	Error logLevel = "error"
	Fatal logLevel = "fatal"
	Panic logLevel = "panic"
)

type Module string

const (
	ModuleServer    Module = "server"
	ModuleSetting   Module = "setting"
	ModuleUpload    Module = "upload"
	ModuleExtract   Module = "extract"
	ModuleSummary   Module = "summary"
	ModuleQuiz      Module = "quiz"
	ModuleChat      Module = "chat"
	ModuleRetriever Module = "retriever"
	ModuleLLM       Module = "llm"
	ModuleS3        Module = "s3"
	ModuleSession   Module = "session"
)

type llmConfig struct {
	Key         string  `koanf:"key"`
	BaseURL     string  `koanf:"base_url"`
	Model       string  `koanf:"model" validate:"required"`
	Temperature float64 `koanf:"temperature"`
	MaxTokens   int     `koanf:"max_tokens" validate:"required"`
	MaxAttempts int     `koanf:"max_attempts" validate:"required"`
}

type extractConfig struct {
	MaxPages int `koanf:"max_pages" validate:"required"`
}

type retrievalConfig struct {
	ChunkCount int `koanf:"chunk_count" validate:"required"`
	TopK       int `koanf:"top_k" validate:"required"`
}

type quizConfig struct {
	MaxQuestions  int    `koanf:"max_questions" validate:"required"`
	MinChunkWords int    `koanf:"min_chunk_words" validate:"required"`
	ResultsDir    string `koanf:"results_dir" validate:"required"`
}

type corsConfig struct {
	AllowOrigins []string `koanf:"allow_origins"`
	AllowMethods []string `koanf:"allow_methods"`
	AllowHeaders []string `koanf:"allow_headers"`
}

type s3Config struct {
	Endpoint  string `koanf:"endpoint"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	Region    string `koanf:"region"`
	UseSSL    bool   `koanf:"use_ssl"`
	Bucket    string `koanf:"bucket"`
}

type config struct {
	Server    serverConfig    `koanf:"server"`
	LLM       llmConfig       `koanf:"llm"`
	Extract   extractConfig   `koanf:"extract"`
	Retrieval retrievalConfig `koanf:"retrieval"`
	Quiz      quizConfig      `koanf:"quiz"`
	S3        s3Config        `koanf:"s3"`
	Cors      corsConfig      `koanf:"cors"`
	LogLevel  logLevel        `koanf:"log_level"`
}

var defaultConfig = config{
	Server: serverConfig{
		Port:        8000,
		Mode:        "release",
		Concurrency: 256,
		BodyLimit:   32 << 20,
		AppName:     "pdf-study-buddy",
	},
	LLM: llmConfig{
		Key:         "",
		BaseURL:     "https://api.groq.com/openai/v1",
		Model:       "llama3-70b-8192",
		Temperature: 0.3,
		MaxTokens:   4000,
		MaxAttempts: 3,
	},
	Extract: extractConfig{
		MaxPages: 15,
	},
	Retrieval: retrievalConfig{
		ChunkCount: 10,
		TopK:       3,
	},
	Quiz: quizConfig{
		MaxQuestions:  10,
		MinChunkWords: 100,
		ResultsDir:    "results",
	},
	S3: s3Config{
		Endpoint:  "",
		AccessKey: "",
		SecretKey: "",
		Region:    "us-east-1",
		UseSSL:    false,
		Bucket:    "",
	},
	LogLevel: Info,
}

var (
	Cfg  = defaultConfig
	once sync.Once
)

// Init loads config from the given yaml path with APP_ env overrides on top.
// Missing file is fine; defaults then apply.
func Init(path string) error {
	var initErr error
	once.Do(func() {
		k := koanf.New(".")
		Cfg = defaultConfig

		if e := k.Load(file.Provider(path), yaml.Parser()); e != nil && !os.IsNotExist(e) {
			initErr = e
			return
		}

		// env APP_LLM.KEY -> llm.key
		if e := k.Load(env.Provider("APP_", ".", func(s string) string {
			return strings.ToLower(strings.TrimPrefix(s, "APP_"))
		}), nil); e != nil {
			initErr = e
			return
		}

		if e := k.Unmarshal("", &Cfg); e != nil {
			log.Errorf("failed to unmarshal config: %v", e)
			initErr = e
			return
		}

		validate := validator.New()
		if err := validate.Struct(Cfg); err != nil {
			if errs, ok := err.(validator.ValidationErrors); ok {
				var sb strings.Builder
				sb.WriteString(fmt.Sprintf("%v config validation failed:\n", ModuleSetting))
				for _, e := range errs {
					sb.WriteString(
						fmt.Sprintf("  - %s: failed '%s' (value: %v)\n", e.Field(), e.Tag(), e.Value()),
					)
				}
				log.Error(sb.String())
			} else {
				log.Errorf("config validation failed: %v", err)
			}
			initErr = err
		}
	})
	return initErr
}

func init() {
	_ = Init("config.yaml")
}
