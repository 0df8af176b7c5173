package api

import (
	"sync"

	"github.com/evanw/csscolor/internal/cache"
	"github.com/evanw/csscolor/internal/config"
	"github.com/evanw/csscolor/internal/logger"
	"github.com/evanw/csscolor/internal/resolver"
)

func validateFormat(value Format) config.Format {
	switch value {
	case FormatComputedValue:
		return config.FormatComputed
	case FormatSpecifiedValue:
		return config.FormatSpecified
	case FormatHex:
		return config.FormatHex
	case FormatHexAlpha:
		return config.FormatHexAlpha
	default:
		panic("Invalid format")
	}
}

func validateColor(value StderrColor) logger.StderrColor {
	switch value {
	case ColorIfTerminal:
		return logger.ColorIfTerminal
	case ColorNever:
		return logger.ColorNever
	case ColorAlways:
		return logger.ColorAlways
	default:
		panic("Invalid color")
	}
}

func validateLogLevel(value LogLevel) logger.LogLevel {
	switch value {
	case LogLevelSilent:
		return logger.LevelSilent
	case LogLevelVerbose:
		return logger.LevelVerbose
	case LogLevelDebug:
		return logger.LevelDebug
	case LogLevelInfo:
		return logger.LevelInfo
	case LogLevelWarning:
		return logger.LevelWarning
	case LogLevelError:
		return logger.LevelError
	default:
		panic("Invalid log level")
	}
}

func validateOptions(options Options) *config.Options {
	return &config.Options{
		Format:                 validateFormat(options.Format),
		ColorSpace:             options.ColorSpace,
		CurrentColor:           options.CurrentColor,
		CustomProperty:         options.CustomProperty,
		CustomPropertyCallback: options.CustomPropertyCallback,
		Dimension:              options.Dimension,
		DimensionCallback:      options.DimensionCallback,
		D50:                    options.D50,
		Key:                    options.Key,
		Alpha:                  options.Alpha,
		MaxDepth:               options.MaxDepth,
	}
}

func convertMessagesToPublic(kind logger.MsgKind, msgs []logger.Msg) []Message {
	var filtered []Message
	for _, msg := range msgs {
		if msg.Kind != kind {
			continue
		}
		var location *Location
		if loc := msg.Location; loc != nil {
			location = &Location{
				File:     loc.File,
				Line:     loc.Line,
				Column:   loc.Column,
				Length:   loc.Length,
				LineText: loc.LineText,
			}
		}
		filtered = append(filtered, Message{Text: msg.Text, Location: location})
	}
	return filtered
}

type engineImpl struct {
	caches   *cache.CacheSet
	resolver *resolver.Resolver

	mutex sync.Mutex
	msgs  []logger.Msg
}

func newEngineImpl(options EngineOptions) *engineImpl {
	var inner logger.Log
	if options.LogLevel == LogLevelSilent {
		inner = logger.NewDeferLog(logger.LevelSilent)
	} else {
		inner = logger.NewStderrLog(logger.StderrOptions{
			IncludeSource: true,
			Color:         validateColor(options.Color),
			LogLevel:      validateLogLevel(options.LogLevel),
		})
	}

	impl := &engineImpl{caches: cache.MakeCacheSet(options.CacheSize)}

	// Keep warnings and errors around for "Messages" regardless of what the
	// underlying log prints
	log := logger.Log{
		AddMsg: func(msg logger.Msg) {
			if msg.Kind == logger.Error || msg.Kind == logger.Warning {
				impl.mutex.Lock()
				impl.msgs = append(impl.msgs, msg)
				impl.mutex.Unlock()
			}
			inner.AddMsg(msg)
		},
		HasErrors: inner.HasErrors,
		Done:      inner.Done,
	}

	impl.resolver = resolver.NewResolver(log, impl.caches, options.MaxDepth)
	return impl
}

func (impl *engineImpl) resolve(color string, options Options) (Result, error) {
	resolved, err := impl.resolver.Resolve(color, validateOptions(options))
	if err != nil {
		return Result{}, err
	}
	return Result{Key: options.Key, Value: resolved.Value, Null: resolved.Null}, nil
}

func (impl *engineImpl) colorToHex(color string, options Options) (Result, error) {
	resolved, err := impl.resolver.ColorToHex(color, validateOptions(options))
	if err != nil {
		return Result{}, err
	}
	return Result{Key: options.Key, Value: resolved.Value, Null: resolved.Null}, nil
}

func (impl *engineImpl) colorToTuple(convert func(string, *config.Options) ([4]float64, error), color string, options Options) ([4]float64, error) {
	return convert(color, validateOptions(options))
}

func (impl *engineImpl) cssCalc(value string, options Options) (string, error) {
	return impl.resolver.CSSCalc(value, validateOptions(options))
}

func (impl *engineImpl) messages() ([]Message, []Message) {
	impl.mutex.Lock()
	defer impl.mutex.Unlock()
	return convertMessagesToPublic(logger.Error, impl.msgs), convertMessagesToPublic(logger.Warning, impl.msgs)
}

func (impl *engineImpl) cacheStats() map[string]CacheStats {
	stats := make(map[string]CacheStats)
	for name, s := range impl.caches.Stats() {
		stats[name] = CacheStats{Len: s.Len, Hits: s.Hits, Misses: s.Misses}
	}
	return stats
}
