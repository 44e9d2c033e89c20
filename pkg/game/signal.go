package game

// Subscription 订阅句柄
// Unsubscribe 可重复调用
type Subscription struct {
	cancel func()
}

// Unsubscribe 取消订阅
func (s *Subscription) Unsubscribe() {
	if s == nil || s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil
}

type listener[T any] struct {
	id uint64
	fn func(T)
}

// Signal 同步发布的值通知
//
// Publish 在调用方线程上按订阅顺序依次调用监听者，没有缓冲和批处理。
type Signal[T any] struct {
	listeners []listener[T]
	nextID    uint64
}

// Subscribe 注册监听者
func (s *Signal[T]) Subscribe(fn func(T)) *Subscription {
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener[T]{id: id, fn: fn})
	return &Subscription{cancel: func() { s.remove(id) }}
}

func (s *Signal[T]) remove(id uint64) {
	for i, l := range s.listeners {
		if l.id == id {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

// Publish 通知所有监听者
func (s *Signal[T]) Publish(v T) {
	// 复制一份，监听者在回调中退订不影响本轮遍历
	snapshot := append([]listener[T](nil), s.listeners...)
	for _, l := range snapshot {
		l.fn(v)
	}
}

// Len 监听者数量
func (s *Signal[T]) Len() int {
	return len(s.listeners)
}

// Subscriptions 一组订阅，卸载时一起释放
type Subscriptions struct {
	list []*Subscription
}

// Add 收集订阅句柄，返回同一句柄便于链式使用
func (b *Subscriptions) Add(s *Subscription) *Subscription {
	b.list = append(b.list, s)
	return s
}

// Len 未释放的订阅数量
func (b *Subscriptions) Len() int {
	return len(b.list)
}

// Dispose 释放全部订阅
func (b *Subscriptions) Dispose() {
	for i := len(b.list) - 1; i >= 0; i-- {
		b.list[i].Unsubscribe()
	}
	b.list = nil
}
