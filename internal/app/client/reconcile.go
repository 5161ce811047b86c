package client

import (
	"timekeeper/internal/domain/draft"
	"timekeeper/internal/domain/family"
)

// Reconciler один шаг сверки ожидающих правок со свежим снимком сервера.
// Контракт: либо подтвердить, что правка уже отражена сервером, и снять ее,
// либо оставить ожидающей. Ничего другого шаг делать не должен.
type Reconciler interface {
	Reconcile(snapshot *family.Snapshot, tracker *draft.Tracker)
}

// creationReconciler снимает ожидающие создания, когда правило появилось
// в снимке под своим клиентским идентификатором.
type creationReconciler struct{}

func (creationReconciler) Reconcile(snapshot *family.Snapshot, tracker *draft.Tracker) {
	for _, rec := range tracker.NewRules() {
		if _, ok := snapshot.FindRule(rec.CategoryID, rec.Rule.ID); ok {
			tracker.ConfirmCreation(rec.Rule.ID)
		}
	}
}

// deletionReconciler снимает ожидающие удаления, когда правила в снимке
// больше нет.
type deletionReconciler struct{}

func (deletionReconciler) Reconcile(snapshot *family.Snapshot, tracker *draft.Tracker) {
	for _, rec := range tracker.DeletedRules() {
		if _, ok := snapshot.FindRule(rec.CategoryID, rec.RuleID); !ok {
			tracker.ConfirmDeletion(rec.CategoryID, rec.RuleID)
		}
	}
}

// appChangeReconciler снимает изменения привязок, когда членство пакета
// в категории уже соответствует направлению правки.
type appChangeReconciler struct{}

func (appChangeReconciler) Reconcile(snapshot *family.Snapshot, tracker *draft.Tracker) {
	for _, ch := range tracker.AppChanges() {
		has := snapshot.HasCategoryApp(ch.CategoryID, ch.PackageName)
		confirmed := (ch.Direction == draft.DirectionAdd && has) ||
			(ch.Direction == draft.DirectionRemove && !has)
		if confirmed {
			tracker.ConfirmAppChange(ch.CategoryID, ch.PackageName, ch.Direction)
		}
	}
}
