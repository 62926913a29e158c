package protocol

// Handler runs one request. args holds the raw text after the letter
// token, without the separating comma.
type Handler func(args string, r *Reply) error

// Command is a registered single-letter request
type Command struct {
	Letter  byte
	Name    string
	Handler Handler
}

// Registry maps request letters to handlers
type Registry struct {
	commands map[byte]*Command
	order    []byte
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{commands: make(map[byte]*Command)}
}

// Register adds a handler for letter. A second registration of the same
// letter replaces the handler.
func (r *Registry) Register(letter byte, name string, handler Handler) {
	if _, exists := r.commands[letter]; !exists {
		r.order = append(r.order, letter)
	}
	r.commands[letter] = &Command{Letter: letter, Name: name, Handler: handler}
}

// Lookup returns the command for letter
func (r *Registry) Lookup(letter byte) (*Command, bool) {
	cmd, ok := r.commands[letter]
	return cmd, ok
}

// Count returns the number of registered commands
func (r *Registry) Count() int {
	return len(r.commands)
}

// Letters returns the registered letters in registration order
func (r *Registry) Letters() []byte {
	out := make([]byte, len(r.order))
	copy(out, r.order)
	return out
}
