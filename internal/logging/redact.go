package logging

import "go.uber.org/zap/zapcore"

// WithRedaction returns a Logger that passes messages, string fields and
// error fields through redact before they reach next.
func WithRedaction(next Logger, redact func(string) string) Logger {
	if redact == nil {
		return next
	}
	return &redactingLogger{next: next, redact: redact}
}

type redactingLogger struct {
	next   Logger
	redact func(string) string
}

func (r *redactingLogger) Debug(msg string, fields ...Field) {
	r.next.Debug(r.redact(msg), r.fields(fields)...)
}

func (r *redactingLogger) Info(msg string, fields ...Field) {
	r.next.Info(r.redact(msg), r.fields(fields)...)
}

func (r *redactingLogger) Warn(msg string, fields ...Field) {
	r.next.Warn(r.redact(msg), r.fields(fields)...)
}

func (r *redactingLogger) Error(msg string, fields ...Field) {
	r.next.Error(r.redact(msg), r.fields(fields)...)
}

func (r *redactingLogger) With(fields ...Field) Logger {
	return &redactingLogger{next: r.next.With(r.fields(fields)...), redact: r.redact}
}

func (r *redactingLogger) Sync() error {
	return r.next.Sync()
}

// fields rewrites string and error fields. An error becomes a string field
// under the same key.
func (r *redactingLogger) fields(in []Field) []Field {
	if len(in) == 0 {
		return in
	}
	out := make([]Field, len(in))
	for i, f := range in {
		switch f.Type {
		case zapcore.StringType:
			f.String = r.redact(f.String)
		case zapcore.ErrorType:
			if err, ok := f.Interface.(error); ok {
				f = String(f.Key, r.redact(err.Error()))
			}
		}
		out[i] = f
	}
	return out
}
