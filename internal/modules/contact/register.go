package contact

import (
	"database/sql"
	"net/http"

	"floodwatch/internal/modules/contact/controller"
	"floodwatch/internal/modules/contact/repository"
)

func RegisterFeature(mux *http.ServeMux, db *sql.DB) {
	contactRepository := repository.NewRepository(db)
	contactController := controller.NewContactController(contactRepository)
	contactController.RegisterRoutes(mux)
}
