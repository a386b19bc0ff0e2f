package appcontext

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/config"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/constants"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/infra/gateway/iamport"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/infra/producer"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/infra/repository/db"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/infra/repository/redis_repo"
	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/service"
	"gorm.io/gorm"
)

type ApplicationContext struct {
	Cf     *config.Config
	Logger *zerolog.Logger

	DbConn *gorm.DB
	DbDao  *db.DbDao
	Rdb    *redis.Client

	OrderRepo   db.IOrderRepository
	ProductRepo db.IProductRepository
	UserRepo    db.IUserRepository
	CartRepo    redis_repo.ICartRepository
	SeqRepo     redis_repo.ISequenceRepository

	Verifier      iamport.IPaymentVerifier
	EventProducer producer.IOrderEventProducer

	OrderService service.IOrderService
}

func NewApplicationContext(cf *config.Config, logger *zerolog.Logger) (*ApplicationContext, error) {
	app := ApplicationContext{
		Cf:     cf,
		Logger: logger,
	}
	err := app.Init()

	if err != nil {
		return nil, err
	}

	return &app, nil
}

func (app *ApplicationContext) Init() error {
	err := app.setUpDbConn()
	if err != nil {
		return err
	}
	err = app.setUpRedis()
	if err != nil {
		return err
	}
	app.setUpRepos()
	app.setUpGateway()
	app.setUpProducer()
	app.setUpOrderService()

	return nil
}

func (app *ApplicationContext) setUpDbConn() error {
	log.Printf("Start setup database connection")
	conn, err := db.GetDbConn(app.Cf.DbName, app.Cf.DbHost, app.Cf.DbPort, app.Cf.DbUser, app.Cf.DbPas)
	if err != nil {
		return err
	}
	app.DbConn = conn
	app.DbDao = db.NewDbDao(conn)

	if err := app.DbDao.InitMigrate(); err != nil {
		return err
	}
	log.Printf("Finish setup database connection")
	return nil
}

func (app *ApplicationContext) setUpRedis() error {
	log.Printf("Start setup redis connection")
	app.Rdb = redis.NewClient(&redis.Options{
		Addr:     app.Cf.RedisAddr,
		Password: app.Cf.RedisPassword,
	})
	if err := app.Rdb.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	log.Printf("Finish setup redis connection")
	return nil
}

func (app *ApplicationContext) setUpRepos() {
	log.Printf("Start setup repositories")
	app.OrderRepo = db.NewOrderRepo(app.DbDao)
	app.ProductRepo = db.NewProductRepo(app.DbDao)
	app.UserRepo = db.NewUserRepo(app.DbDao)
	app.CartRepo = redis_repo.NewCartRepo(app.Rdb)
	app.SeqRepo = redis_repo.NewSequenceRepo(app.Rdb)
	log.Printf("Finish setup repositories")
}

func (app *ApplicationContext) setUpGateway() {
	log.Printf("Start setup payment gateway client")
	if app.Cf.GatewayConfigured() {
		app.Verifier = iamport.NewClient(app.Cf.ImpBaseUrl, app.Cf.ImpApiKey, app.Cf.ImpApiSecret)
	} else {
		//沒有憑證時不驗證付款, 只允許在開發環境
		log.Printf("payment gateway credentials not configured, verification disabled")
	}
	log.Printf("Finish setup payment gateway client")
}

func (app *ApplicationContext) setUpProducer() {
	log.Printf("Start setup order event producer")
	brokers := splitBrokers(app.Cf.KafkaBrokers)
	if len(brokers) > 0 {
		app.EventProducer = producer.NewOrderEventProducer(brokers, constants.OrderEventsTopic)
	} else {
		log.Printf("kafka brokers not configured, order events disabled")
	}
	log.Printf("Finish setup order event producer")
}

func (app *ApplicationContext) setUpOrderService() {
	log.Printf("Start setup order service")
	app.OrderService = service.NewOrderService(
		app.OrderRepo,
		app.ProductRepo,
		app.UserRepo,
		app.CartRepo,
		app.SeqRepo,
		app.Verifier,
		app.EventProducer,
		app.Logger,
	)
	log.Printf("Finish setup order service")
}

func splitBrokers(brokersCSV string) []string {
	brokers := []string{}
	for _, b := range strings.Split(brokersCSV, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func (app *ApplicationContext) Shutdown(ctx context.Context) error {
	log.Printf("Start application shutdown")

	done := make(chan error)
	go func() {
		defer close(done)

		if app.EventProducer != nil {
			log.Printf("Closing order event producer...")
			if err := app.EventProducer.Close(); err != nil {
				//有錯誤不結束流程
				log.Printf("event producer shutdown error: %v", err)
			}
		}

		if app.Rdb != nil {
			log.Printf("Closing redis connection...")
			if err := app.Rdb.Close(); err != nil {
				log.Printf("redis shutdown error: %v", err)
			}
		}

		// 關閉 DB
		if app.DbConn != nil {
			log.Printf("Closing database connection...")
			if sqlDB, err := app.DbConn.DB(); err == nil {
				sqlDB.Close()
			}
		}

		log.Printf("Application shutdown complete")
		done <- nil
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout: %v", ctx.Err())
	}
}
