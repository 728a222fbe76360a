package sample

func registerRoutes(app *Router) {
	app.GET("/user/<int:user_id>", getUser)
	app.POST("/user", createUser)
	app.GET("/health", healthCheck)
}

func getUser(user_id string) error {
	return nil
}

func createUser(username, email, password string) error {
	return nil
}

func healthCheck() error {
	return nil
}
