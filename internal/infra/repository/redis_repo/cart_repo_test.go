package redis_repo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/domain/model"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type CartRepoTestSuite struct {
	suite.Suite
	rdb      *redis.Client
	cartRepo *CartRepo
	seqRepo  *SequenceRepo
}

const testUserID = 9001

// SetupSuite 在測試套件開始前執行, 需要本地redis
func (suite *CartRepoTestSuite) SetupSuite() {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		suite.T().Skip("TEST_REDIS_ADDR not set, skipping redis integration tests")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(suite.T(), rdb.Ping(context.Background()).Err())

	suite.rdb = rdb
	suite.cartRepo = NewCartRepo(rdb)
	suite.seqRepo = NewSequenceRepo(rdb)
}

// SetupTest 在每個測試前執行
func (suite *CartRepoTestSuite) SetupTest() {
	ctx := context.Background()
	suite.rdb.Del(ctx,
		fmt.Sprintf("cart:%d:items", testUserID),
		fmt.Sprintf("cart:%d:meta", testUserID),
	)
	keys, _ := suite.rdb.Keys(ctx, "orderno:*").Result()
	if len(keys) > 0 {
		suite.rdb.Del(ctx, keys...)
	}
}

func (suite *CartRepoTestSuite) TearDownSuite() {
	if suite.rdb != nil {
		suite.rdb.Close()
	}
}

func (suite *CartRepoTestSuite) TestCreateAndGet() {
	ctx := context.Background()
	cart := &model.Cart{
		UserID: testUserID,
		Items: []model.CartItem{
			{ProductID: "PROD-A", Quantity: 2},
			{ProductID: "PROD-B", Quantity: 1},
		},
	}

	err := suite.cartRepo.Create(ctx, cart)
	require.NoError(suite.T(), err)

	found, err := suite.cartRepo.Get(ctx, testUserID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), testUserID, found.UserID)
	require.Len(suite.T(), found.Items, 2)
}

func (suite *CartRepoTestSuite) TestGet_EmptyCart() {
	found, err := suite.cartRepo.Get(context.Background(), testUserID)
	require.NoError(suite.T(), err)
	require.Empty(suite.T(), found.Items)
}

func (suite *CartRepoTestSuite) TestDelta() {
	ctx := context.Background()

	require.NoError(suite.T(), suite.cartRepo.Delta(ctx, testUserID, "PROD-A", 3))
	require.NoError(suite.T(), suite.cartRepo.Delta(ctx, testUserID, "PROD-A", -1))

	found, err := suite.cartRepo.Get(ctx, testUserID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), found.Items, 1)
	require.Equal(suite.T(), 2, found.Items[0].Quantity)
}

func (suite *CartRepoTestSuite) TestDelta_InsufficientQuantity() {
	ctx := context.Background()

	require.NoError(suite.T(), suite.cartRepo.Delta(ctx, testUserID, "PROD-A", 1))

	// 扣減超過現有數量
	err := suite.cartRepo.Delta(ctx, testUserID, "PROD-A", -5)
	require.Error(suite.T(), err)
	require.ErrorIs(suite.T(), err, ErrInsufficientQuantity)
}

func (suite *CartRepoTestSuite) TestDelta_RemovesItemAtZero() {
	ctx := context.Background()

	require.NoError(suite.T(), suite.cartRepo.Delta(ctx, testUserID, "PROD-A", 2))
	require.NoError(suite.T(), suite.cartRepo.Delta(ctx, testUserID, "PROD-A", -2))

	found, err := suite.cartRepo.Get(ctx, testUserID)
	require.NoError(suite.T(), err)
	require.Empty(suite.T(), found.Items)
}

func (suite *CartRepoTestSuite) TestRemoveItems_KeepsUnorderedItems() {
	ctx := context.Background()
	cart := &model.Cart{
		UserID: testUserID,
		Items: []model.CartItem{
			{ProductID: "PROD-A", Quantity: 2},
			{ProductID: "PROD-B", Quantity: 1},
			{ProductID: "PROD-C", Quantity: 3},
		},
	}
	require.NoError(suite.T(), suite.cartRepo.Create(ctx, cart))

	// 只移除已下單的商品
	err := suite.cartRepo.RemoveItems(ctx, testUserID, []string{"PROD-A", "PROD-B"})
	require.NoError(suite.T(), err)

	found, err := suite.cartRepo.Get(ctx, testUserID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), found.Items, 1)
	require.Equal(suite.T(), "PROD-C", found.Items[0].ProductID)
}

func (suite *CartRepoTestSuite) TestRemoveItems_EmptyList() {
	err := suite.cartRepo.RemoveItems(context.Background(), testUserID, nil)
	require.NoError(suite.T(), err)
}

func (suite *CartRepoTestSuite) TestClear() {
	ctx := context.Background()
	require.NoError(suite.T(), suite.cartRepo.Delta(ctx, testUserID, "PROD-A", 1))

	require.NoError(suite.T(), suite.cartRepo.Clear(ctx, testUserID))

	found, err := suite.cartRepo.Get(ctx, testUserID)
	require.NoError(suite.T(), err)
	require.Empty(suite.T(), found.Items)
}

func (suite *CartRepoTestSuite) TestNextOrderNo() {
	ctx := context.Background()
	now := time.Now()

	first, err := suite.seqRepo.NextOrderNo(ctx, now)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), fmt.Sprintf("ORD-%s-00001", now.Format("20060102")), first)

	second, err := suite.seqRepo.NextOrderNo(ctx, now)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), fmt.Sprintf("ORD-%s-00002", now.Format("20060102")), second)
}

func (suite *CartRepoTestSuite) TestNextOrderNo_ResetsAcrossDays() {
	ctx := context.Background()
	today := time.Now()
	tomorrow := today.Add(24 * time.Hour)

	_, err := suite.seqRepo.NextOrderNo(ctx, today)
	require.NoError(suite.T(), err)

	// 跨日後流水號歸一
	no, err := suite.seqRepo.NextOrderNo(ctx, tomorrow)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), fmt.Sprintf("ORD-%s-00001", tomorrow.Format("20060102")), no)
}

func TestCartRepoTestSuite(t *testing.T) {
	suite.Run(t, new(CartRepoTestSuite))
}
