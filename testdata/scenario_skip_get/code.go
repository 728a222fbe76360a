package sample

func registerRoutes(app *Router) {
	app.GET("/user/<int:user_id>", getUser)
}

func getUser(user_id string) error {
	return nil
}
