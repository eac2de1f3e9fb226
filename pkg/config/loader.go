package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	mu      sync.Mutex
	cache   = make(map[string]any)
	envOnce sync.Once
)

// LoadEnv loads the given .env files into the process environment, overriding
// values that are already set. With no arguments it loads ./.env.
// The parsed config cache is cleared so later Load calls see the new values.
func LoadEnv(files ...string) error {
	if err := godotenv.Overload(files...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	ResetCache()
	return nil
}

// Load parses environment variables into v using `env` struct tags.
// Each config type is parsed once per process; later calls copy the cached
// value. The default .env file is read on first use if it exists.
//
//	type MailConfig struct {
//		Host string `env:"SMTP_HOST,required"`
//		Port int    `env:"SMTP_PORT" envDefault:"587"`
//	}
//
//	var cfg MailConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	envOnce.Do(func() {
		// a missing .env is fine
		_ = godotenv.Load()
	})

	key := typeKey[T]()

	mu.Lock()
	defer mu.Unlock()

	if cached, ok := cache[key]; ok {
		*v = cached.(T)
		return nil
	}

	var parsed T
	if err := env.Parse(&parsed); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	cache[key] = parsed
	*v = parsed
	return nil
}

// MustLoad is Load that panics. Use it for configuration a service cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// ResetCache forgets every parsed configuration.
func ResetCache() {
	mu.Lock()
	defer mu.Unlock()
	cache = make(map[string]any)
}

func typeKey[T any]() string {
	t := reflect.TypeFor[T]()
	return t.PkgPath() + "." + t.String()
}
