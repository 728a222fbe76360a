package sample

func registerRoutes(app *Router) {
	app.POST("/account", createAccount)
	app.GET("/status", status)
}

func createAccount(name string) error {
	return nil
}

func status() error {
	return nil
}
