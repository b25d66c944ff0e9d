package txmanager

import "context"

type hooksKey struct{}

type commitHooks struct {
	fns []func()
}

// WithCommitHooks открывает список функций, которые выполнит run после успешного коммита.
// Менеджер транзакций вызывает её для внешней транзакции, вложенные переиспользуют список.
func WithCommitHooks(ctx context.Context) (context.Context, func()) {
	if _, ok := ctx.Value(hooksKey{}).(*commitHooks); ok {
		return ctx, func() {}
	}

	hooks := &commitHooks{}
	run := func() {
		for _, fn := range hooks.fns {
			fn()
		}
		hooks.fns = nil
	}
	return context.WithValue(ctx, hooksKey{}, hooks), run
}

// OnCommit откладывает fn до коммита внешней транзакции.
// Вне транзакции fn выполняется сразу; при откате не выполняется никогда.
func OnCommit(ctx context.Context, fn func()) {
	if hooks, ok := ctx.Value(hooksKey{}).(*commitHooks); ok {
		hooks.fns = append(hooks.fns, fn)
		return
	}
	fn()
}
