package rabbitmq

// Exchange is the direct exchange every job is published to.
const Exchange = "notifications"

// Calendar broadcast routing.
const (
	CalendarQueue      = "notification.calendar"
	CalendarRoutingKey = "calendar.broadcast"
)

type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: CalendarQueue, RoutingKey: CalendarRoutingKey},
	}
}
