package sale

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateSaleNo 生成销售单号
// 格式:VD + 日期时间(秒) + 4位随机数,如VD202401151030450042
// 单门店并发量很低,秒级时间加随机数足够;数据库唯一索引兜底
func GenerateSaleNo(now time.Time) string {
	return fmt.Sprintf("VD%s%04d", now.Format("20060102150405"), rand.Intn(10000))
}
