package casbin

import (
	"sync"

	"github.com/casbin/casbin/v3"
	casbinmodel "github.com/casbin/casbin/v3/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	rediswatcher "github.com/casbin/redis-watcher/v2"
	"github.com/Lidan4315/Ideku-sub000/pkg/database"
	"github.com/Lidan4315/Ideku-sub000/pkg/logger"
	pkgredis "github.com/Lidan4315/Ideku-sub000/pkg/redis"
)

// rbacModel RBAC 模型：sub 为用户ID或角色ID，obj 为API路径，act 为HTTP方法
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

var (
	enforcer     *casbin.SyncedCachedEnforcer
	enforcerOnce sync.Once
	enforcerMu   sync.RWMutex
)

// Init 初始化Casbin权限管理器
func Init() error {
	var initErr error
	enforcerOnce.Do(func() {
		initErr = initEnforcer()
	})
	return initErr
}

func initEnforcer() error {
	// 使用GORM适配器，将策略存储到数据库
	adapter, err := gormadapter.NewAdapterByDB(database.DB)
	if err != nil {
		logger.Errorf("初始化Casbin适配器失败: %v", err)
		return err
	}

	m, err := casbinmodel.NewModelFromString(rbacModel)
	if err != nil {
		logger.Errorf("加载Casbin模型失败: %v", err)
		return err
	}

	// SyncedCachedEnforcer 解决单机多线程问题，多机器同步通过 Watcher 实现
	enforcer, err = casbin.NewSyncedCachedEnforcer(m, adapter)
	if err != nil {
		logger.Errorf("创建Casbin执行器失败: %v", err)
		return err
	}

	// 缓存过期时间（1小时）
	enforcer.SetExpireTime(60 * 60)

	// 配置Redis Watcher实现多机器策略同步
	// 机器A更新权限 → Watcher发布消息到Redis → 其他机器收到通知后自动重新加载
	if pkgredis.IsEnabled() {
		redisClient := pkgredis.GetClient()
		if redisClient != nil {
			redisAddr := redisClient.Options().Addr
			if redisAddr == "" {
				redisAddr = "localhost:6379"
			}

			watcher, err := rediswatcher.NewWatcher(redisAddr, rediswatcher.WatcherOptions{})
			if err != nil {
				logger.Warnf("创建Redis Watcher失败: %v，将使用数据库同步模式（降级）", err)
			} else if err := enforcer.SetWatcher(watcher); err != nil {
				logger.Warnf("设置Watcher失败: %v，将使用数据库同步模式（降级）", err)
			} else {
				watcher.SetUpdateCallback(func(msg string) {
					logger.Infof("收到策略更新通知: %s，重新加载策略", msg)
					if err := enforcer.LoadPolicy(); err != nil {
						logger.Errorf("重新加载策略失败: %v", err)
					} else {
						enforcer.InvalidateCache()
					}
				})
				logger.Infof("Redis Watcher已配置（地址: %s），支持多机器权限同步", redisAddr)
			}
		}
	} else {
		logger.Info("Redis未启用，权限变更后其他实例需要手动调用ReloadPolicy")
	}

	if err := enforcer.LoadPolicy(); err != nil {
		logger.Errorf("加载Casbin策略失败: %v", err)
		return err
	}

	logger.Info("Casbin权限管理器初始化成功")
	return nil
}

// GetEnforcer 获取Casbin执行器（线程安全）
func GetEnforcer() *casbin.SyncedCachedEnforcer {
	enforcerMu.RLock()
	defer enforcerMu.RUnlock()
	return enforcer
}

// Enforce 检查 sub 是否有权限以 act 方式访问 obj
func Enforce(sub, obj, act string) (bool, error) {
	e := GetEnforcer()
	if e == nil {
		return false, nil
	}
	return e.Enforce(sub, obj, act)
}

// AddPolicy 新增权限策略
func AddPolicy(sub, obj, act string) (bool, error) {
	e := GetEnforcer()
	if e == nil {
		return false, nil
	}
	return e.AddPolicy(sub, obj, act)
}

// RemovePolicy 删除权限策略
func RemovePolicy(sub, obj, act string) (bool, error) {
	e := GetEnforcer()
	if e == nil {
		return false, nil
	}
	return e.RemovePolicy(sub, obj, act)
}

// GetFilteredPolicy 按字段过滤查询策略
func GetFilteredPolicy(fieldIndex int, fieldValues ...string) ([][]string, error) {
	e := GetEnforcer()
	if e == nil {
		return nil, nil
	}
	return e.GetFilteredPolicy(fieldIndex, fieldValues...)
}

// AddRoleForUser 给用户绑定角色
func AddRoleForUser(userID, roleID string) (bool, error) {
	e := GetEnforcer()
	if e == nil {
		return false, nil
	}
	return e.AddGroupingPolicy(userID, roleID)
}

// ReloadPolicy 重新加载策略并清除缓存
func ReloadPolicy() error {
	e := GetEnforcer()
	if e == nil {
		return nil
	}
	if err := e.LoadPolicy(); err != nil {
		return err
	}
	e.InvalidateCache()
	return nil
}
