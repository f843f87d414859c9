package cache

import "fmt"

// Key builds a namespaced cache key, e.g. Key("wallet", "user", 42).
func Key(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

func UserKey(userID uint) string {
	return Key("user", "id", userID)
}

func WalletUserKey(userID uint) string {
	return Key("wallet", "user", userID)
}

func WalletNumberKey(number string) string {
	return Key("wallet", "number", number)
}
