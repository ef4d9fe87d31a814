package errors

// classDefaults holds the severity and retry strategy each category starts
// with. Builders may override both.
var classDefaults = map[ErrorCategory]struct {
	severity ErrorSeverity
	retry    RetryStrategy
}{
	CategoryConfig:     {SeverityFatal, RetryUserAction},
	CategoryValidation: {SeverityFatal, RetryNever},
	CategoryRender:     {SeverityFatal, RetryNever},
	CategoryInternal:   {SeverityFatal, RetryNever},
	CategoryFileSystem: {SeverityError, RetryBackoff},
	CategoryCache:      {SeverityWarning, RetryNever},
}

// ErrorBuilder assembles a ClassifiedError.
type ErrorBuilder struct {
	err ClassifiedError
}

// NewError starts a builder for category. Severity and retry strategy
// default per category (fatal for config, validation, render and internal
// errors; retryable for filesystem errors; warnings for cache errors).
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	b := &ErrorBuilder{err: ClassifiedError{
		category: category,
		severity: SeverityError,
		retry:    RetryNever,
		message:  message,
		context:  make(ErrorContext),
	}}
	if d, ok := classDefaults[category]; ok {
		b.err.severity, b.err.retry = d.severity, d.retry
	}
	return b
}

// WrapError starts a builder around an existing error.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	return NewError(category, message).WithCause(err)
}

func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.err.severity = severity
	return b
}

func (b *ErrorBuilder) WithRetry(strategy RetryStrategy) *ErrorBuilder {
	b.err.retry = strategy
	return b
}

func (b *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	b.err.cause = err
	return b
}

func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.err.context = b.err.context.Set(key, value)
	return b
}

// WithPath records the file the error concerns. The CLI prints it.
func (b *ErrorBuilder) WithPath(path string) *ErrorBuilder {
	return b.WithContext(ContextPath, path)
}

// WithSlug records the page slug the error concerns. The CLI prints it.
func (b *ErrorBuilder) WithSlug(slug string) *ErrorBuilder {
	return b.WithContext(ContextSlug, slug)
}

func (b *ErrorBuilder) Fatal() *ErrorBuilder      { return b.WithSeverity(SeverityFatal) }
func (b *ErrorBuilder) Warning() *ErrorBuilder    { return b.WithSeverity(SeverityWarning) }
func (b *ErrorBuilder) Retryable() *ErrorBuilder  { return b.WithRetry(RetryBackoff) }
func (b *ErrorBuilder) UserAction() *ErrorBuilder { return b.WithRetry(RetryUserAction) }

// Build returns the error. The builder may be reused afterwards without
// affecting errors it already built.
func (b *ErrorBuilder) Build() *ClassifiedError {
	out := b.err
	out.context = make(ErrorContext, len(b.err.context))
	for k, v := range b.err.context {
		out.context[k] = v
	}
	return &out
}

func ConfigError(message string) *ErrorBuilder     { return NewError(CategoryConfig, message) }
func ValidationError(message string) *ErrorBuilder { return NewError(CategoryValidation, message) }
func ContentError(message string) *ErrorBuilder    { return NewError(CategoryContent, message) }
func RenderError(message string) *ErrorBuilder     { return NewError(CategoryRender, message) }
func FileSystemError(message string) *ErrorBuilder { return NewError(CategoryFileSystem, message) }
func CacheError(message string) *ErrorBuilder      { return NewError(CategoryCache, message) }
func InternalError(message string) *ErrorBuilder   { return NewError(CategoryInternal, message) }
