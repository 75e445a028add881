package routes

// RouteBuilder configures message routes.
type RouteBuilder interface {
	Configure() error
}

// OrderRoutes implements RouteBuilder with a value receiver.
type OrderRoutes struct{}

func (OrderRoutes) Configure() error { return nil }

// TimerRoutes implements RouteBuilder with a pointer receiver.
type TimerRoutes struct {
	period int
}

func (t *TimerRoutes) Configure() error {
	t.period = 1000
	return nil
}

type internalRoutes struct{}

func (internalRoutes) Configure() error { return nil }

// Settings is not a route builder.
type Settings struct {
	Name string
}
