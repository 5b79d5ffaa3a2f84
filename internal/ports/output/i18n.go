package output

// T looks up user-facing messages. data fills the template placeholders and
// may be nil.
type T interface {
	T(locale, key string, data map[string]any) string
}
