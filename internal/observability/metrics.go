package observability

const (
	MFacadeRequests       MetricKey = "facade_requests_total"
	MFacadeDuration       MetricKey = "facade_request_duration_seconds"
	MHTTPRequests         MetricKey = "http_requests_total"
	MHTTPRequestDuration  MetricKey = "http_request_duration_seconds"
	MCollaboratorRequests MetricKey = "collaborator_requests_total"
	MCollaboratorDuration MetricKey = "collaborator_request_duration_seconds"
	MNotificationsSent    MetricKey = "notifications_sent_total"
	MEventPublishFailures MetricKey = "event_publish_failed_total"
)
