package modules

import (
	"github.com/Sokol111/device-catalogue-service/pkg/persistence/mongo"
	"go.uber.org/fx"
)

// NewPersistenceModule provides mongo and the persistence.TxManager.
func NewPersistenceModule(opts ...mongo.Option) fx.Option {
	return mongo.NewMongoModule(opts...)
}
