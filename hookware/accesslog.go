package hookware

import (
	"log/slog"

	"github.com/ninepath/strada/dispatch"
)

// AccessLogConfig configures the access log hooks.
type AccessLogConfig struct {
	// Logger receives the log records. Nil means slog.Default().
	Logger *slog.Logger
}

func (cfg AccessLogConfig) logger() *slog.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return slog.Default()
}

// AccessLogStart returns a hook for the before_routing point that logs
// the incoming method and path.
func AccessLogStart(cfg AccessLogConfig) dispatch.HookFunc {
	logger := cfg.logger()

	return func(data any) (any, dispatch.Flow, error) {
		if frame := frameOf(data); frame != nil {
			logger.Info("request", "method", frame.Method, "path", frame.Path)
		}
		return data, dispatch.FlowContinue, nil
	}
}

// AccessLogFinish returns a hook for the after_action_execute point that
// logs the response status for the matched route.
func AccessLogFinish(cfg AccessLogConfig) dispatch.HookFunc {
	logger := cfg.logger()

	return func(data any) (any, dispatch.Flow, error) {
		frame := frameOf(data)
		if frame == nil {
			return data, dispatch.FlowContinue, nil
		}

		status := 0
		if frame.Response != nil {
			status = frame.Response.Status
		}

		pattern := ""
		if frame.Match != nil {
			pattern = frame.Match.Route.EffectivePattern()
		}

		logger.Info("response", "method", frame.Method, "path", frame.Path, "route", pattern, "status", status)

		return data, dispatch.FlowContinue, nil
	}
}
