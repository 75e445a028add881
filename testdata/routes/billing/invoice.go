package billing

import "example.com/routes"

var _ routes.RouteBuilder = InvoiceRoutes{}

// InvoiceRoutes implements routes.RouteBuilder from another package.
type InvoiceRoutes struct{}

func (InvoiceRoutes) Configure() error { return nil }

// Sender has a different method set.
type Sender struct{}

func (Sender) Send() error { return nil }
