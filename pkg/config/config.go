package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ==================== 配置结构 ====================

// Config 应用配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Booking  BookingConfig  `mapstructure:"booking"`
	Task     TaskConfig     `mapstructure:"task"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

// LogConfig 日志配置
type LogConfig struct {
	Debug bool `mapstructure:"debug"`
}

// TaskConfig 后台任务配置
type TaskConfig struct {
	// ExpireEnabled 是否启用 pending 预订过期清理
	ExpireEnabled bool `mapstructure:"expire_enabled"`
	// ExpireCron 清理任务 cron 表达式（带秒位）
	ExpireCron string `mapstructure:"expire_cron"`
}

// BookingConfig 预订引擎配置
// 配额、时长、阈值全部是数据而非代码，可按部署调整
type BookingConfig struct {
	// SlotDurationMinutes 每个预订时段的固定时长（分钟）
	SlotDurationMinutes int `mapstructure:"slot_duration_minutes"`
	// MaxTablesPerCombination 单次预订最多组合的桌数
	MaxTablesPerCombination int `mapstructure:"max_tables_per_combination"`
	// MaxTablesPerStaff 同一 (日期, 时间) 槽位内单个员工最多服务的桌数
	MaxTablesPerStaff int `mapstructure:"max_tables_per_staff"`
	// ShiftLeadMinutes 线上桌释放给线下散客的提前量（分钟）
	ShiftLeadMinutes int `mapstructure:"shift_lead_minutes"`
	// OfflineBufferMinutes 线下可用性检查的前置缓冲（分钟）
	OfflineBufferMinutes int `mapstructure:"offline_buffer_minutes"`
	// MaxPersonsOnline / MaxPersonsOffline 单次预订人数上限
	MaxPersonsOnline  int `mapstructure:"max_persons_online"`
	MaxPersonsOffline int `mapstructure:"max_persons_offline"`
	// OnlineQuotas 线上渠道各容量档位的并发配额，key 为容量（字符串形式）
	OnlineQuotas map[string]int `mapstructure:"online_quotas"`
}

// ==================== 加载 ====================

// Load 读取配置文件并应用默认值
// path 为空时只用默认值 + 环境变量（ELITECAFE_ 前缀）
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("database.dsn", "host=localhost user=cafe_admin password=1234 dbname=elitecafe port=5432 sslmode=disable")
	v.SetDefault("log.debug", false)

	v.SetDefault("task.expire_enabled", true)
	v.SetDefault("task.expire_cron", "0 0 * * * *")

	v.SetDefault("booking.slot_duration_minutes", 60)
	v.SetDefault("booking.max_tables_per_combination", 4)
	v.SetDefault("booking.max_tables_per_staff", 3)
	v.SetDefault("booking.shift_lead_minutes", 10)
	v.SetDefault("booking.offline_buffer_minutes", 45)
	v.SetDefault("booking.max_persons_online", 100)
	v.SetDefault("booking.max_persons_offline", 10)
	v.SetDefault("booking.online_quotas", map[string]int{
		"2": 3,
		"4": 6,
		"6": 2,
	})

	v.SetEnvPrefix("ELITECAFE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %v", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %v", err)
	}
	return &cfg, nil
}

// ==================== BookingConfig 辅助方法 ====================

// SlotDuration 时段时长
func (c *BookingConfig) SlotDuration() time.Duration {
	return time.Duration(c.SlotDurationMinutes) * time.Minute
}

// ShiftLead 线上转线下的提前量
func (c *BookingConfig) ShiftLead() time.Duration {
	return time.Duration(c.ShiftLeadMinutes) * time.Minute
}

// OfflineBuffer 线下检查缓冲
func (c *BookingConfig) OfflineBuffer() time.Duration {
	return time.Duration(c.OfflineBufferMinutes) * time.Minute
}

// OnlineQuota 指定容量档位的线上配额，未配置的档位返回 (0, false)
func (c *BookingConfig) OnlineQuota(capacity int) (int, bool) {
	q, ok := c.OnlineQuotas[strconv.Itoa(capacity)]
	return q, ok
}

// OnlineQuotaCapacities 已配置配额的容量档位，升序
func (c *BookingConfig) OnlineQuotaCapacities() []int {
	caps := make([]int, 0, len(c.OnlineQuotas))
	for k := range c.OnlineQuotas {
		n, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		caps = append(caps, n)
	}
	sort.Ints(caps)
	return caps
}

// SmallestQuotaCapacity 配额表中最小的容量档位，不存在时返回 0
func (c *BookingConfig) SmallestQuotaCapacity() int {
	caps := c.OnlineQuotaCapacities()
	if len(caps) == 0 {
		return 0
	}
	return caps[0]
}
