package server_test

import (
	"context"
	"net"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	reflectionpb "google.golang.org/grpc/reflection/grpc_reflection_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/oggyb/vidrec/internal/app"
	"github.com/oggyb/vidrec/internal/db"
	"github.com/oggyb/vidrec/internal/db/dbtest"
	"github.com/oggyb/vidrec/internal/logger"
	"github.com/oggyb/vidrec/internal/metrics"
	"github.com/oggyb/vidrec/internal/rpc/vidrec"
	"github.com/oggyb/vidrec/internal/server"
	"github.com/oggyb/vidrec/internal/service/recommender"
	"github.com/oggyb/vidrec/internal/service/user"
)

type clients struct {
	conn  *grpc.ClientConn
	users *vidrec.UsersClient
	recs  *vidrec.RecommenderClient
}

// startServer serves both services over an in-memory listener.
func startServer(t *testing.T) (*app.AppContext, clients) {
	t.Helper()

	gdb := dbtest.Open(t)
	rdb, _ := dbtest.Redis(t)
	log := logger.Discard()
	appCtx := app.New(gdb, rdb, log)

	lis := bufconn.Listen(1 << 20)
	s := server.NewGRPCServer(log, user.NewRegistrar(appCtx), recommender.NewRegistrar(appCtx))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, lis, s, log) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return appCtx, clients{
		conn:  conn,
		users: vidrec.NewUsersClient(conn),
		recs:  vidrec.NewRecommenderClient(conn),
	}
}

func TestGRPC_UserFlow(t *testing.T) {
	ctx := context.Background()
	_, c := startServer(t)

	alice, err := c.users.Register(ctx, &vidrec.RegisterRequest{Name: "alice", Sex: "女", Password: "pw", Wechat: "wx_a"})
	require.NoError(t, err)
	bob, err := c.users.Register(ctx, &vidrec.RegisterRequest{Name: "bob", Sex: "男", Password: "pw", QQ: "42", Birthday: "3月14日"})
	require.NoError(t, err)
	assert.NotEqual(t, alice.MID, bob.MID)

	_, err = c.users.Register(ctx, &vidrec.RegisterRequest{Name: "copy", Password: "pw", Wechat: "wx_a"})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	_, err = c.users.Register(ctx, &vidrec.RegisterRequest{Name: "bad", Password: "pw", Birthday: "2月30日"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	ok, err := c.users.IsValidAuth(ctx, &vidrec.AuthRequest{Auth: &vidrec.Auth{Wechat: "wx_a"}})
	require.NoError(t, err)
	assert.True(t, ok.OK)

	ok, err = c.users.IsValidAuth(ctx, &vidrec.AuthRequest{Auth: &vidrec.Auth{MID: bob.MID, Password: "nope"}})
	require.NoError(t, err)
	assert.False(t, ok.OK)

	followed, err := c.users.Follow(ctx, &vidrec.FollowRequest{Auth: &vidrec.Auth{QQ: "42"}, Followee: alice.MID})
	require.NoError(t, err)
	assert.True(t, followed.OK)

	count, err := c.users.CountFollowers(ctx, &vidrec.MIDRequest{MID: alice.MID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count.Count)

	info, err := c.users.GetUserInfo(ctx, &vidrec.MIDRequest{MID: bob.MID})
	require.NoError(t, err)
	assert.Equal(t, []uint64{alice.MID}, info.Following)

	_, err = c.users.Follow(ctx, &vidrec.FollowRequest{Auth: &vidrec.Auth{QQ: "42"}, Followee: bob.MID})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = c.users.Follow(ctx, &vidrec.FollowRequest{Auth: &vidrec.Auth{QQ: "42"}})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	_, err = c.users.DeleteAccount(ctx, &vidrec.DeleteAccountRequest{Auth: &vidrec.Auth{QQ: "42"}})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = c.users.GetUserInfo(ctx, &vidrec.MIDRequest{MID: 999})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = c.users.DeleteAccount(ctx, &vidrec.DeleteAccountRequest{Auth: &vidrec.Auth{QQ: "42"}, MID: alice.MID})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	deleted, err := c.users.DeleteAccount(ctx, &vidrec.DeleteAccountRequest{Auth: &vidrec.Auth{QQ: "42"}, MID: bob.MID})
	require.NoError(t, err)
	assert.True(t, deleted.OK)

	count, err = c.users.CountFollowers(ctx, &vidrec.MIDRequest{MID: alice.MID})
	require.NoError(t, err)
	assert.Equal(t, int64(0), count.Count)
}

func TestGRPC_RecommenderStatusCodes(t *testing.T) {
	ctx := context.Background()
	appCtx, c := startServer(t)

	require.NoError(t, appCtx.DB.Create(&[]db.Video{
		{BV: "X", OwnerID: 1, Title: "x", Duration: 10},
		{BV: "Y", OwnerID: 1, Title: "y", Duration: 10},
	}).Error)
	require.NoError(t, appCtx.DB.Create(&[]db.ViewRecord{
		{BV: "X", MID: 1, Progress: 10},
		{BV: "Y", MID: 1, Progress: 5},
	}).Error)

	next, err := c.recs.RecommendNextVideo(ctx, &vidrec.NextVideoRequest{BV: "X"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Y"}, next.BVs)

	_, err = c.recs.RecommendNextVideo(ctx, &vidrec.NextVideoRequest{BV: "nobody-saw-this"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	general, err := c.recs.GeneralRecommendations(ctx, &vidrec.GeneralRequest{Page: vidrec.Page{PageSize: 10, PageNum: 1}})
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "Y"}, general.BVs)

	_, err = c.recs.GeneralRecommendations(ctx, &vidrec.GeneralRequest{Page: vidrec.Page{PageSize: 0, PageNum: 1}})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = c.recs.RecommendVideosForUser(ctx, &vidrec.UserPageRequest{Page: vidrec.Page{PageSize: 10, PageNum: 1}})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = c.recs.RecommendFriends(ctx, &vidrec.UserPageRequest{
		Auth: &vidrec.Auth{MID: 1, Password: "pw"},
		Page: vidrec.Page{PageSize: 10, PageNum: 1},
	})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	rate, err := c.recs.AverageViewRate(ctx, &vidrec.AverageViewRateRequest{BV: "X"})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, rate.Rate, 1e-9)
}

func TestLoggingInterceptor_CountsByCode(t *testing.T) {
	ctx := context.Background()
	_, c := startServer(t)

	method := "/" + vidrec.RecommenderServiceName + "/GeneralRecommendations"
	okBefore := testutil.ToFloat64(metrics.GRPCRequests.WithLabelValues(method, codes.OK.String()))
	badBefore := testutil.ToFloat64(metrics.GRPCRequests.WithLabelValues(method, codes.InvalidArgument.String()))

	_, err := c.recs.GeneralRecommendations(ctx, &vidrec.GeneralRequest{Page: vidrec.Page{PageSize: 1, PageNum: 1}})
	require.NoError(t, err)
	_, err = c.recs.GeneralRecommendations(ctx, &vidrec.GeneralRequest{})
	require.Error(t, err)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(metrics.GRPCRequests.WithLabelValues(method, codes.OK.String())))
	assert.Equal(t, badBefore+1, testutil.ToFloat64(metrics.GRPCRequests.WithLabelValues(method, codes.InvalidArgument.String())))
}

func TestReflection_ListsServicesOnly(t *testing.T) {
	ctx := context.Background()
	_, c := startServer(t)

	stream, err := reflectionpb.NewServerReflectionClient(c.conn).ServerReflectionInfo(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stream.CloseSend() })

	require.NoError(t, stream.Send(&reflectionpb.ServerReflectionRequest{
		MessageRequest: &reflectionpb.ServerReflectionRequest_ListServices{},
	}))
	resp, err := stream.Recv()
	require.NoError(t, err)

	var names []string
	for _, svc := range resp.GetListServicesResponse().GetService() {
		names = append(names, svc.GetName())
	}
	assert.Contains(t, names, vidrec.RecommenderServiceName)
	assert.Contains(t, names, vidrec.UsersServiceName)

	// no proto file backs the descriptors
	require.NoError(t, stream.Send(&reflectionpb.ServerReflectionRequest{
		MessageRequest: &reflectionpb.ServerReflectionRequest_FileContainingSymbol{
			FileContainingSymbol: vidrec.RecommenderServiceName,
		},
	}))
	resp, err = stream.Recv()
	require.NoError(t, err)
	assert.NotNil(t, resp.GetErrorResponse())
}
