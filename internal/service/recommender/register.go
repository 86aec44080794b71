package recommender

import (
	"google.golang.org/grpc"

	"github.com/oggyb/vidrec/internal/app"
	"github.com/oggyb/vidrec/internal/rpc/vidrec"
)

// Registrar ties the Recommender service into the gRPC server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the Recommender service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the Recommender service implementation to the gRPC server
func (r *Registrar) Register(s *grpc.Server) {
	vidrec.RegisterRecommenderServer(s, NewHandler(r.appCtx))
}
