package service

// Kind classifies a business failure independently of the transport.
type Kind int

const (
	KindInvalido Kind = iota + 1
	KindNoAutorizado
	KindNoEncontrado
	KindConflicto
)

// Error is a business failure safe to show to API clients.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// Is matches errors of the same kind; a target without message matches any
// error of its kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Msg == "" || t.Msg == e.Msg)
}

func invalido(msg string) *Error { return &Error{Kind: KindInvalido, Msg: msg} }

// Kind-only sentinels for errors.Is checks.
var (
	ErrInvalido     = &Error{Kind: KindInvalido}
	ErrNoEncontrado = &Error{Kind: KindNoEncontrado}
	ErrConflicto    = &Error{Kind: KindConflicto}
)

var (
	ErrCredenciales         = &Error{Kind: KindNoAutorizado, Msg: "Usuario o contraseña incorrectos"}
	ErrUsuarioNoEncontrado  = &Error{Kind: KindNoEncontrado, Msg: "Usuario no encontrado"}
	ErrUsuarioDuplicado     = &Error{Kind: KindConflicto, Msg: "El nombre de usuario ya está registrado"}
	ErrTurnoNoEncontrado    = &Error{Kind: KindNoEncontrado, Msg: "Turno no encontrado"}
	ErrRegistroNoEncontrado = &Error{Kind: KindNoEncontrado, Msg: "Registro no encontrado"}
	ErrRangoFechasInvalido  = &Error{Kind: KindInvalido, Msg: "La fecha final es anterior a la inicial"}
)
