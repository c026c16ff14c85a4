// Package storage 聚合附件服务依赖的全部存储资源：
// S3 对象存储、关系型数据库、KV 缓存与消息队列.
//
// Example:
//
//	ctx := context.Background()
//	mgr, err := storage.Init(ctx)
//	if err != nil {
//	    // 处理错误
//	}
//
//	s3Client := mgr.GetS3Client()
//	dbClient := mgr.GetDBClient()
package storage

import (
	"context"
	"sync"

	"github.com/yeisme/attachvault/pkg/configs"
	dbc "github.com/yeisme/attachvault/pkg/internal/storage/db"
	kvc "github.com/yeisme/attachvault/pkg/internal/storage/kv"
	mqc "github.com/yeisme/attachvault/pkg/internal/storage/mq"
	s3c "github.com/yeisme/attachvault/pkg/internal/storage/s3"
	nlog "github.com/yeisme/attachvault/pkg/log"
)

// Manager 聚合所有存储资源.
type Manager struct {
	S3 *s3c.Client
	DB *dbc.Client
	KV *kvc.Client
	MQ *mqc.Client
}

var (
	mgr     *Manager
	mgrOnce sync.Once
)

// Init 初始化默认存储，使用全局配置.重复调用只返回已初始化实例.
func Init(ctx context.Context) (*Manager, error) {
	var err error

	mgrOnce.Do(func() {
		cfg := configs.GetConfig()

		m, e := NewManager(ctx, cfg)
		if e != nil {
			err = e
			return
		}

		mgr = m

		nlog.Logger().Info().Msg("存储管理器已初始化")
	})

	return mgr, err
}

// NewManager 按给定配置构建 Manager，不使用单例.测试中可直接构造.
func NewManager(ctx context.Context, cfg *configs.AppConfig) (*Manager, error) {
	m := &Manager{}

	dbi, err := dbc.New(ctx, &cfg.DB)
	if err != nil {
		return nil, err
	}
	m.DB = dbi

	s3i, err := s3c.New(ctx, &cfg.S3)
	if err != nil {
		return nil, err
	}
	m.S3 = s3i

	kvi, err := kvc.New(ctx, &cfg.KV)
	if err != nil {
		return nil, err
	}
	m.KV = kvi

	mqi, err := mqc.New(ctx, &cfg.MQ)
	if err != nil {
		return nil, err
	}
	m.MQ = mqi

	return m, nil
}

// GetS3Client 获取 S3 客户端.
func (m *Manager) GetS3Client() *s3c.Client {
	return m.S3
}

// GetDBClient 获取 DB 客户端.
func (m *Manager) GetDBClient() *dbc.Client {
	return m.DB
}

// GetKVClient 获取 KV 客户端.
func (m *Manager) GetKVClient() *kvc.Client {
	return m.KV
}

// GetMQClient 获取 MQ 客户端.
func (m *Manager) GetMQClient() *mqc.Client {
	return m.MQ
}

// Close 依次关闭全部存储资源，返回最后一个出现的错误.
func (m *Manager) Close() error {
	var err error

	if m.MQ != nil {
		if e := m.MQ.Close(); e != nil {
			err = e
		}
	}

	if m.KV != nil {
		if e := m.KV.Close(); e != nil {
			err = e
		}
	}

	if m.DB != nil {
		if e := m.DB.Close(); e != nil {
			err = e
		}
	}

	return err
}
