// @title           salonhub API
// @version         1.0
// @description     API салонного маркетплейса: рефералы, награды, бронирования.
// @contact.name    SalonHub
// @contact.email   support@salonhub.dev
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:4000
// @BasePath        /

package main

import "salonhub_backend/internal/app"

func main() {
	app.Run()
}
