package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// EnvPrefix is the prefix for environment-variable configuration fallbacks.
const EnvPrefix = "NXF"

// Accessor resolves executor-scoped settings with a three-tier fallback:
// the executor-specific config entry (then the generic executor entry), the
// environment variable named by convention, and finally the caller default.
//
// Lookups are memoized per (executor, property, default) tuple for the
// lifetime of the Accessor, so repeated hot-path queries from task dispatch
// do not re-walk the model or the environment.
type Accessor struct {
	model *Model
	cache sync.Map
}

// NewAccessor creates an Accessor over the given model.
func NewAccessor(model *Model) *Accessor {
	if model == nil {
		model = NewModel(nil)
	}
	return &Accessor{model: model}
}

// ExecProp resolves one executor property. Resolution order:
//
//  1. executor.<name>.<prop> in the configuration model
//  2. executor.<prop> in the configuration model
//  3. the environment variable NXF_EXECUTOR_<PROP>, uppercased
//  4. the supplied default
func (a *Accessor) ExecProp(execName, prop string, def any) any {
	// The default's type is part of the key: an int 10 and a string "10"
	// render identically but must not share a memo entry.
	key := fmt.Sprintf("%s\x00%s\x00%T\x00%v", execName, prop, def, def)
	if cached, ok := a.cache.Load(key); ok {
		return cached
	}

	val := a.resolve(execName, prop, def)
	actual, _ := a.cache.LoadOrStore(key, val)
	return actual
}

func (a *Accessor) resolve(execName, prop string, def any) any {
	if v, ok := a.model.Get("executor", execName, prop); ok {
		return v
	}
	if v, ok := a.model.Get("executor", prop); ok {
		// Guard against the generic lookup landing on another executor's
		// scope block rather than a real property.
		if _, isMap := v.(map[string]any); !isMap {
			return v
		}
	}
	if v, ok := os.LookupEnv(envName(prop)); ok {
		return v
	}
	return def
}

// envName maps a property name to its environment fallback, e.g. "queueSize"
// becomes NXF_EXECUTOR_QUEUESIZE.
func envName(prop string) string {
	cleaned := strings.ReplaceAll(prop, ".", "_")
	return EnvPrefix + "_EXECUTOR_" + strings.ToUpper(cleaned)
}

// QueueSize resolves the queueSize property for the named executor.
func (a *Accessor) QueueSize(execName string, def int) int {
	return a.Int(execName, "queueSize", def)
}

// PollInterval resolves the pollInterval property for the named executor.
func (a *Accessor) PollInterval(execName string, def time.Duration) time.Duration {
	return a.Duration(execName, "pollInterval", def)
}

// Int resolves an executor property and coerces it to int, falling back to
// def when the resolved value cannot be interpreted as an integer.
func (a *Accessor) Int(execName, prop string, def int) int {
	switch v := a.ExecProp(execName, prop, def).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// String resolves an executor property as a string.
func (a *Accessor) String(execName, prop, def string) string {
	switch v := a.ExecProp(execName, prop, def).(type) {
	case string:
		return v
	case nil:
		return def
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Duration resolves an executor property as a time.Duration. String values
// use time.ParseDuration syntax; numeric values are taken as seconds.
func (a *Accessor) Duration(execName, prop string, def time.Duration) time.Duration {
	switch v := a.ExecProp(execName, prop, def).(type) {
	case time.Duration:
		return v
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	case int:
		return time.Duration(v) * time.Second
	case float64:
		return time.Duration(v * float64(time.Second))
	}
	return def
}
