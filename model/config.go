package model

// Config 应用凭据与可选的 token 缓存后端配置
// 配置文件为 JSON，路径见 ConfigPath，也可通过环境变量提供凭据
type Config struct {
	AppID          string `json:"app_id"`
	AppSecret      string `json:"app_secret"`
	RedisAddress   string `json:"redis_address,omitempty"`
	RedisPassword  string `json:"redis_password,omitempty"`
	TokenCacheFile string `json:"token_cache_file,omitempty"`
}
