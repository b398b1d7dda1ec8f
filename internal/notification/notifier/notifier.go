package notifier

import (
	"log"
)

// Notifier abstracts the delivery channel (email, chat, push) so the
// worker doesn't care which one is wired.
type Notifier interface {
	Notify(subject, message string) error
}

// ConsoleNotifier logs to stdout; good enough for dev and tests.
type ConsoleNotifier struct{}

func NewConsole() *ConsoleNotifier {
	return &ConsoleNotifier{}
}

func (c *ConsoleNotifier) Notify(subject, message string) error {
	log.Printf("[notify] %s :: %s\n", subject, message)
	return nil
}
