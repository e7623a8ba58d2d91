package auth

import "context"

type subjectKey struct{}

// WithSubject attaches the authenticated subject to ctx. The gate calls this
// after a successful check; downstream handlers read it back with
// SubjectFromContext.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey{}, subject)
}

// SubjectFromContext returns the subject attached by WithSubject. The second
// return is false when no non-empty subject is present, which for a protected
// handler means the gate was bypassed.
func SubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey{}).(string)
	return subject, ok && subject != ""
}
