package sample

func registerRoutes(app *Router) {
	app.POST("/user", createUser)
}

func createUser(username, email string) error {
	return nil
}
