package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
)

// Config 應用程式設定
type Config struct {
	// Google Calendar 服務帳戶設定
	GoogleClientEmail string
	GooglePrivateKey  string
	CalendarID        string

	// 預約通知信設定
	NotifyEmail string
	SMTPHost    string
	SMTPPort    string
	SMTPFrom    string

	// 其他設定
	Timezone string
	Port     string

	// AWS 相關（正式環境才會使用）
	ssmClient SSMParameterGetter
}

// SSMParameterGetter Parameter Store 取值介面（測試時以 mock 替換）
type SSMParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// Load 依執行環境載入設定。缺少必要鍵不會在這裡回報錯誤，
// 由 Config.MissingKeys 在請求處理時檢查，錯誤訊息才能列出缺少的項目。
func Load(ctx context.Context) (*Config, error) {
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		return loadAWSConfig(ctx)
	}
	return loadLocalConfig()
}

// loadLocalConfig 本機開發環境：讀取 .env 與環境變數
func loadLocalConfig() (*Config, error) {
	// .env 不存在時不視為錯誤
	if err := godotenv.Load(); err != nil {
		log.Printf("提示：找不到 .env 檔案（%v），改用環境變數", err)
	}

	return newConfigFromEnv(), nil
}

// loadAWSConfig Lambda 環境：環境變數優先，缺少的機密改從 Parameter Store 取得
func loadAWSConfig(ctx context.Context) (*Config, error) {
	cfg := newConfigFromEnv()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("AWS 設定載入失敗：%v", err)
	}
	cfg.ssmClient = ssm.NewFromConfig(awsCfg)

	cfg.fillFromParameterStore(ctx)
	return cfg, nil
}

// newConfigFromEnv 由環境變數組出設定
func newConfigFromEnv() *Config {
	return &Config{
		GoogleClientEmail: getEnvOrDefault("GOOGLE_CLIENT_EMAIL", ""),
		GooglePrivateKey:  NormalizePrivateKey(getEnvOrDefault("GOOGLE_PRIVATE_KEY", "")),
		CalendarID:        getEnvOrDefault("GOOGLE_CALENDAR_ID", ""),
		NotifyEmail:       getEnvOrDefault("BOOKING_NOTIFY_EMAIL", ""),
		SMTPHost:          getEnvOrDefault("SMTP_HOST", "localhost"),
		SMTPPort:          getEnvOrDefault("SMTP_PORT", "25"),
		SMTPFrom:          getEnvOrDefault("SMTP_FROM", "no-reply@booking.local"),
		Timezone:          getEnvOrDefault("TIMEZONE", "Asia/Taipei"),
		Port:              getEnvOrDefault("PORT", "8787"),
	}
}

// fillFromParameterStore 補齊環境變數未提供的機密。
// 取用失敗只記錄警告，缺少的鍵交由 MissingKeys 回報。
func (c *Config) fillFromParameterStore(ctx context.Context) {
	params := []struct {
		target    *string
		paramEnv  string
		paramName string
		normalize bool
	}{
		{&c.GoogleClientEmail, "GOOGLE_CLIENT_EMAIL_PARAM", "/booking-api/google-client-email", false},
		{&c.GooglePrivateKey, "GOOGLE_PRIVATE_KEY_PARAM", "/booking-api/google-private-key", true},
		{&c.CalendarID, "GOOGLE_CALENDAR_ID_PARAM", "/booking-api/google-calendar-id", false},
		{&c.NotifyEmail, "BOOKING_NOTIFY_EMAIL_PARAM", "/booking-api/notify-email", false},
	}

	for _, p := range params {
		if *p.target != "" {
			continue
		}
		name := getEnvOrDefault(p.paramEnv, p.paramName)
		value, err := c.getParameter(ctx, name, true)
		if err != nil {
			log.Printf("警告：Parameter Store 取得 %s 失敗：%v", name, err)
			continue
		}
		if p.normalize {
			value = NormalizePrivateKey(value)
		}
		*p.target = value
	}
}

// getParameter 從 Parameter Store 取得指定參數
func (c *Config) getParameter(ctx context.Context, paramName string, withDecryption bool) (string, error) {
	input := &ssm.GetParameterInput{
		Name:           aws.String(paramName),
		WithDecryption: aws.Bool(withDecryption),
	}

	result, err := c.ssmClient.GetParameter(ctx, input)
	if err != nil {
		return "", err
	}
	if result.Parameter == nil || result.Parameter.Value == nil {
		return "", fmt.Errorf("參數 %s 是空的", paramName)
	}
	return *result.Parameter.Value, nil
}

// MissingKeys 回傳尚未設定的必要設定鍵（固定順序，方便組錯誤訊息）
func (c *Config) MissingKeys() []string {
	var missing []string
	if c.GoogleClientEmail == "" {
		missing = append(missing, "GOOGLE_CLIENT_EMAIL")
	}
	if c.GooglePrivateKey == "" {
		missing = append(missing, "GOOGLE_PRIVATE_KEY")
	}
	if c.CalendarID == "" {
		missing = append(missing, "GOOGLE_CALENDAR_ID")
	}
	if c.NotifyEmail == "" {
		missing = append(missing, "BOOKING_NOTIFY_EMAIL")
	}
	return missing
}

// NormalizePrivateKey 整理環境變數中的私鑰：去除包住的引號，
// 並把字面上的 \n 換成真正的換行（常見於部署平台的設定介面）。
func NormalizePrivateKey(key string) string {
	key = strings.TrimSpace(key)
	if strings.HasPrefix(key, `"`) && strings.HasSuffix(key, `"`) && len(key) >= 2 {
		key = key[1 : len(key)-1]
	}
	return strings.ReplaceAll(key, `\n`, "\n")
}

// getEnvOrDefault 取得環境變數，不存在時回傳預設值
func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
