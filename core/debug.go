package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// Logger writes tagged debug lines through a platform-provided writer.
// It formats with the itoa helpers so firmware builds don't pull in fmt.
type Logger struct {
	prefix  string
	writer  DebugWriter
	enabled bool
}

// NewLogger creates a logger whose lines start with "[prefix] "
func NewLogger(prefix string, writer DebugWriter) *Logger {
	l := &Logger{prefix: "[" + prefix + "] "}
	l.SetWriter(writer)
	return l
}

// SetWriter sets the platform-specific debug output function.
// A nil writer disables output.
func (l *Logger) SetWriter(writer DebugWriter) {
	l.writer = writer
	l.enabled = writer != nil
}

// SetEnabled enables or disables output without dropping the writer
func (l *Logger) SetEnabled(enabled bool) {
	l.enabled = enabled && l.writer != nil
}

// Enabled returns whether debug output is active
func (l *Logger) Enabled() bool {
	return l != nil && l.enabled
}

// Println writes a debug message
func (l *Logger) Println(msg string) {
	if l.Enabled() {
		l.writer(l.prefix + msg)
	}
}

// Value writes "msg key=value" for an integer value
func (l *Logger) Value(msg, key string, value int) {
	if l.Enabled() {
		l.writer(l.prefix + msg + " " + key + "=" + Itoa(value))
	}
}

// Error writes msg followed by the error text. Nil errors are ignored.
func (l *Logger) Error(msg string, err error) {
	if err != nil && l.Enabled() {
		l.writer(l.prefix + msg + ": " + err.Error())
	}
}

// With returns a logger sharing the writer with an extended prefix
func (l *Logger) With(prefix string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{
		prefix:  l.prefix[:len(l.prefix)-1] + "[" + prefix + "] ",
		writer:  l.writer,
		enabled: l.enabled,
	}
}
