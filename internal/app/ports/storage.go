package ports

type CachePort[K comparable, V any] interface {
	Set(key K, val V)
	Get(key K) (V, bool)
	Len() int
}
