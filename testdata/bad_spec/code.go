package sample

func registerRoutes(app *Router) {
	app.POST("/user", createUser)
}

func createUser(username string) error {
	return nil
}
