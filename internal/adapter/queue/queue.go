package queue

// MessageQueue carries reservation lifecycle events between service
// instances. Subjects are the domain event types; each adapter scopes
// them with a configurable prefix so several deployments can share one
// broker.
type MessageQueue interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte) error) error
	Close() error
}

// subjectName scopes a domain event subject with the deployment prefix.
// An empty prefix leaves the subject untouched.
func subjectName(prefix, subject string) string {
	if prefix == "" {
		return subject
	}
	return prefix + "." + subject
}
