package services

// ServiceContainer holds instances of all the application services.
// It is built once at startup and handed to the route registration.
type ServiceContainer struct {
	User           UserSvcFacade
	Invoice        InvoiceSvcFacade
	Payment        PaymentSvcFacade
	Reconciliation ReconciliationSvcFacade
}
