package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tavernshift/backend/internal/config"
	"github.com/tavernshift/backend/internal/domain"
	"github.com/tavernshift/backend/internal/repository"
	"github.com/tavernshift/backend/internal/scheduler"
	"github.com/tavernshift/backend/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// noopDispatcher 填充数据时不发送任何通知
type noopDispatcher struct{}

func (noopDispatcher) SendBulk(context.Context, []domain.Notification) error { return nil }

func main() {
	var op int
	var n int
	var organizationID int64
	var rosterPath string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机用户, 2: 创建示例酒吧, 3: 导入花名册)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Int64Var(&organizationID, "organization-id", 0, "导入花名册的组织 ID")
	flag.StringVar(&rosterPath, "roster", "./internal/seed/data/roster.csv", "花名册 CSV 文件路径")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 填充数据不会用到邀请链接，redis 客户端只是为了构造 repository
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
	})
	defer rdb.Close()

	repo := repository.NewRepository(cfg, dbpool, rdb)
	sched := scheduler.New(repo, noopDispatcher{})

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的用户数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				if _, err := seed.CreateRandomUser(repo, cfg.Seed.User.Password, cfg.Email.UserDomain); err != nil {
					slog.Error("无法插入用户", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入用户成功", slog.Int("count", n-cnt))
		}
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的员工数量")
			return
		}
		if err := seed.SeedDemo(repo, sched, n, cfg.Seed.User.Password, cfg.Email.UserDomain); err != nil {
			slog.Error("创建示例酒吧失败", slog.String("error", err.Error()))
		}
	case 3:
		if organizationID <= 0 {
			slog.Error("请输入合法的组织 ID")
			return
		}
		seed.SeedRoster(repo, sched, organizationID, rosterPath, cfg.Seed.User.Password)
	default:
		slog.Error("指定的操作非法")
	}
}
