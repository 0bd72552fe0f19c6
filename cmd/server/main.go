// Command server boots the PayPlan API.
package main

import "github.com/mmtuentertainment/payplan/app"

func main() {
	app.NewFxApp().Run()
}
