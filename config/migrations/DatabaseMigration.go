package migrations

import (
	"github.com/kirana-labs/paybridge/config/application"
	"github.com/kirana-labs/paybridge/model"
)

func MigrateDatabase() {
	_ = application.DB.AutoMigrate(&model.Transaction{})
}
