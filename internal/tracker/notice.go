package tracker

// Level is the severity of a Notice.
type Level string

const (
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a non-fatal condition the user should be told about.
type Notice struct {
	Level   Level
	Message string
	Err     error
}

func (n Notice) String() string {
	if n.Err == nil {
		return n.Message
	}
	return n.Message + ": " + n.Err.Error()
}

// Notifier surfaces notices to the user.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Notice)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notice) { f(n) }

type nopNotifier struct{}

func (nopNotifier) Notify(Notice) {}
