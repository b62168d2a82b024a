package config

import (
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"`
		LogLevel string `envconfig:"LOG_LEVEL"`
		Port     string `envconfig:"PORT"`
		Host     string `envconfig:"HOST"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"APP_NAME"`
		Timezone string `envconfig:"TIMEZONE"`
		CORS     struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			Enable           bool     `envconfig:"ENABLE"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS"`
		} `envconfig:"RATE_LIMITER"`
		APIKey string `envconfig:"API_KEY"`
	} `envconfig:"APP"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
				PoolSize int    `envconfig:"POOL_SIZE"`
				// TimeoutSeconds bounds dial, read and write calls.
				TimeoutSeconds int `envconfig:"TIMEOUT_SECONDS"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		TTL int `envconfig:"TTL"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret string `envconfig:"ACCESS_SECRET"`
		Issuer       string `envconfig:"ISSUER"`
	} `envconfig:"JWT"`

	DB struct {
		Postgres struct {
			MaxRetry       int              `envconfig:"MAX_RETRY"`
			RetryWaitTime  int              `envconfig:"RETRY_WAIT_TIME"`
			MigrationTable string           `envconfig:"MIGRATION_TABLE"`
			AutoMigrate    bool             `envconfig:"AUTO_MIGRATE"`
			Prefix         string           `envconfig:"PREFIX"`
			MaxOpenConns   int              `envconfig:"MAX_OPEN_CONNS"`
			MaxIdleConns   int              `envconfig:"MAX_IDLE_CONNS"`
			Read           PostgresEndpoint `envconfig:"READ"`
			Write          PostgresEndpoint `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	Kafka struct {
		Enable        bool     `envconfig:"ENABLE"`
		Brokers       []string `envconfig:"BROKERS"`
		ConsumerGroup string   `envconfig:"CONSUMER_GROUP"`
		Topics        struct {
			BookingWritten string `envconfig:"BOOKING_WRITTEN"`
		} `envconfig:"TOPICS"`
		SASL struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
	} `envconfig:"KAFKA"`

	Scheduling struct {
		CooldownMonths      int `envconfig:"COOLDOWN_MONTHS"`
		DefaultVolumeML     int `envconfig:"DEFAULT_VOLUME_ML"`
		ReminderHour        int `envconfig:"REMINDER_HOUR"`
		ReminderLeadHours   int `envconfig:"REMINDER_LEAD_HOURS"`
		ReconcileMaxRetries int `envconfig:"RECONCILE_MAX_RETRIES"`
	} `envconfig:"SCHEDULING"`

	Notification struct {
		PushURL                string `envconfig:"PUSH_URL"`
		DispatchIntervalSecond int    `envconfig:"DISPATCH_INTERVAL_SECONDS"`
		BatchSize              int    `envconfig:"BATCH_SIZE"`
		MaxAttempts            int    `envconfig:"MAX_ATTEMPTS"`
		HTTPRetryMax           int    `envconfig:"HTTP_RETRY_MAX"`
	} `envconfig:"NOTIFICATION"`

	External struct {
		Otel struct {
			Endpoint    string  `envconfig:"ENDPOINT"`
			SampleRatio float64 `envconfig:"SAMPLE_RATIO"`
		} `envconfig:"OTEL"`
	}
}

const (
	defaultCooldownMonths    = 3
	defaultVolumeML          = 450
	defaultReminderHour      = 9
	defaultReminderLeadHours = 2
	defaultReconcileRetries  = 5
	defaultDispatchInterval  = 30
	defaultDispatchBatchSize = 100
	defaultMaxAttempts       = 5
	defaultBookingTopic      = "booking.written"
	defaultConsumerGroup     = "reconciler"
	defaultPushURL           = "https://exp.host/--/api/v2/push/send"
	defaultPostgresConns     = 10
	defaultPostgresRetries   = 3
	defaultMigrationTable    = "schema_migrations"
)

var (
	conf        Config
	once        sync.Once
	initialized bool
)

func Init() error {
	var err error

	once.Do(func() {
		err = godotenv.Load(".env")
		if err != nil {
			log.Warn().Err(err).Msg("Could not load .env file, continuing with existing environment variables")
		} else {
			log.Info().Msg("Successfully loaded variables from .env file into environment")
		}

		err = envconfig.Process("", &conf)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to process environment variables")
		}

		conf.ApplyDefaults()

		initialized = true

		log.Info().Msg("Service configuration initialized successfully")
	})

	if err != nil {
		return fmt.Errorf("loading .env file: %w", err)
	}

	return nil
}

func Get() *Config {
	if !initialized {
		if err := Init(); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize configuration")
		}
	}

	return &conf
}

// ApplyDefaults fills pool, scheduling, messaging and notification settings left empty by the environment.
func (c *Config) ApplyDefaults() {
	if c.DB.Postgres.MaxOpenConns <= 0 {
		c.DB.Postgres.MaxOpenConns = defaultPostgresConns
	}

	if c.DB.Postgres.MaxIdleConns <= 0 || c.DB.Postgres.MaxIdleConns > c.DB.Postgres.MaxOpenConns {
		c.DB.Postgres.MaxIdleConns = c.DB.Postgres.MaxOpenConns
	}

	if c.DB.Postgres.MaxRetry <= 0 {
		c.DB.Postgres.MaxRetry = defaultPostgresRetries
	}

	if c.DB.Postgres.MigrationTable == "" {
		c.DB.Postgres.MigrationTable = defaultMigrationTable
	}

	if c.Scheduling.CooldownMonths <= 0 {
		c.Scheduling.CooldownMonths = defaultCooldownMonths
	}

	if c.Scheduling.DefaultVolumeML <= 0 {
		c.Scheduling.DefaultVolumeML = defaultVolumeML
	}

	if c.Scheduling.ReminderHour <= 0 || c.Scheduling.ReminderHour > 23 {
		c.Scheduling.ReminderHour = defaultReminderHour
	}

	if c.Scheduling.ReminderLeadHours <= 0 {
		c.Scheduling.ReminderLeadHours = defaultReminderLeadHours
	}

	if c.Scheduling.ReconcileMaxRetries <= 0 {
		c.Scheduling.ReconcileMaxRetries = defaultReconcileRetries
	}

	if c.Kafka.Topics.BookingWritten == "" {
		c.Kafka.Topics.BookingWritten = defaultBookingTopic
	}

	if c.Kafka.ConsumerGroup == "" {
		c.Kafka.ConsumerGroup = defaultConsumerGroup
	}

	if c.Notification.PushURL == "" {
		c.Notification.PushURL = defaultPushURL
	}

	if c.Notification.DispatchIntervalSecond <= 0 {
		c.Notification.DispatchIntervalSecond = defaultDispatchInterval
	}

	if c.Notification.BatchSize <= 0 {
		c.Notification.BatchSize = defaultDispatchBatchSize
	}

	if c.Notification.MaxAttempts <= 0 {
		c.Notification.MaxAttempts = defaultMaxAttempts
	}
}
