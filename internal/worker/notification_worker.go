package worker

import (
	"github.com/spec-kit/crm-service/internal/events"
	"github.com/spec-kit/crm-service/internal/service"
)

// StartNotificationWorker subscribes the event sinks to the dispatcher.
// Either sink may be nil.
func StartNotificationWorker(dispatcher events.Dispatcher, notificationService *service.NotificationService, kafka *events.KafkaPublisher) {
	if dispatcher == nil {
		return
	}
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	if kafka != nil {
		kafka.Register(dispatcher)
	}
}
