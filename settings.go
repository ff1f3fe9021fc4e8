package combine

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	KeyLogLevel     = "combine.log.level"
	KeyLogFormatter = "combine.log.formatter"
	KeyQueueBuffer  = "combine.queue.buffer"
	KeyPrintPrefix  = "combine.print.prefix"
)

type Config interface {
	Get(string) interface{}
	GetBool(string) bool
	GetInt(string) int
	GetString(string) string
	GetDuration(string) time.Duration

	IsSet(string) bool

	GetBoolDefault(string, bool) bool
	GetIntDefault(string, int) int
	GetStringDefault(string, string) string
	GetDurationDefault(string, time.Duration) time.Duration

	GetConfig(string) (Config, bool)
}

// GlobalConfig wraps the process-wide viper instance.
func GlobalConfig() Config {
	v := viper.GetViper()
	bindEnv(v)
	return &viperWrapper{v}
}

// LoadConfig reads the file at path into a fresh viper instance. The format is
// derived from the file extension.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	bindEnv(v)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return &viperWrapper{v}, nil
}

// ConfigFrom wraps an existing viper instance.
func ConfigFrom(v *viper.Viper) Config {
	return &viperWrapper{v}
}

// bindEnv lets COMBINE_LOG_LEVEL and friends override the matching keys.
func bindEnv(v *viper.Viper) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

type viperWrapper struct {
	*viper.Viper
}

func (w *viperWrapper) GetBoolDefault(key string, v bool) bool {
	if w.IsSet(key) {
		return w.GetBool(key)
	}
	return v
}

func (w *viperWrapper) GetIntDefault(key string, v int) int {
	if w.IsSet(key) {
		return w.GetInt(key)
	}
	return v
}

func (w *viperWrapper) GetStringDefault(key string, v string) string {
	if w.IsSet(key) {
		return w.GetString(key)
	}
	return v
}

func (w *viperWrapper) GetDurationDefault(key string, v time.Duration) time.Duration {
	if w.IsSet(key) {
		return w.GetDuration(key)
	}
	return v
}

func (w *viperWrapper) GetConfig(key string) (Config, bool) {
	if sub := w.Sub(key); sub != nil {
		return &viperWrapper{sub}, true
	}
	return nil, false
}
