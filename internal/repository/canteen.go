package repository

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/smart-campus-hub/internal/metrics"
	"github.com/iliyamo/smart-campus-hub/internal/model"
	"github.com/iliyamo/smart-campus-hub/internal/notify"
)

// ListMenu returns the menu items matching f in seed order.
func (r *Registry) ListMenu(f model.MenuFilter) []model.MenuItem {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.MenuItem, 0, len(r.menu))
	for _, m := range r.menu {
		if f.Match(m) {
			out = append(out, m)
		}
	}
	return out
}

// KitchenStatus returns the current kitchen snapshot.
func (r *Registry) KitchenStatus() model.KitchenStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.kitchen
}

// ListOrders returns orders oldest first. With a StudentID only that
// student's orders are kept; with a Limit only the most recent ones.
func (r *Registry) ListOrders(f model.OrderFilter) []model.Order {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if f.StudentID != "" && o.StudentID != f.StudentID {
			continue
		}
		out = append(out, o.Clone())
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[len(out)-f.Limit:]
	}
	return out
}

// GetOrder looks an order up by id.
func (r *Registry) GetOrder(id string) (model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o := r.findOrder(id)
	if o == nil {
		return model.Order{}, notFound("order")
	}
	return o.Clone(), nil
}

func (r *Registry) findOrder(id string) *model.Order {
	for _, o := range r.orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// PlaceOrder prices the items against the current menu and records a
// confirmed order. Items that reference an unknown menu id are kept on
// the order but add nothing to the total or the preparation estimate.
func (r *Registry) PlaceOrder(in model.NewOrder) (model.Order, error) {
	if len(in.Items) == 0 {
		return model.Order{}, invalid("No items in order")
	}
	for _, it := range in.Items {
		if it.MenuItemID == "" {
			return model.Order{}, invalid("Each item needs a menuItemId")
		}
		if it.Quantity < 1 {
			return model.Order{}, invalid("Item quantity must be at least 1")
		}
	}

	r.mu.Lock()
	var (
		total   float64
		prep    int
		unknown []string
	)
	for _, it := range in.Items {
		m, ok := r.menuItem(it.MenuItemID)
		if !ok {
			unknown = append(unknown, it.MenuItemID)
			continue
		}
		total += m.Price * float64(it.Quantity)
		prep = max(prep, m.PrepTime)
	}

	now := r.now().UTC()
	payment := in.PaymentMethod
	if payment == "" {
		payment = model.DefaultPaymentMethod
	}
	o := &model.Order{
		ID:             r.newID(),
		OrderNumber:    r.orderNumber(),
		Items:          append([]model.OrderItem(nil), in.Items...),
		StudentName:    in.StudentName,
		StudentID:      in.StudentID,
		Total:          total,
		PickupTime:     in.PickupTime,
		PaymentMethod:  payment,
		Status:         model.OrderConfirmed,
		EstimatedReady: now.Add(time.Duration(prep) * time.Minute),
		CreatedAt:      now,
	}
	r.orders = append(r.orders, o)
	r.setActiveOrders(r.kitchen.ActiveOrders + 1)

	order := o.Clone()
	kitchen := r.kitchen
	r.mu.Unlock()

	if len(unknown) > 0 {
		r.log.WithFields(logrus.Fields{
			"order_id":      order.ID,
			"menu_item_ids": unknown,
		}).Warn("order references unknown menu items; they were priced at zero")
	}
	metrics.OrdersTotal.WithLabelValues(string(model.OrderConfirmed)).Inc()
	r.publish(notify.NewOrder, order)
	r.publish(notify.KitchenStatus, kitchen)
	return order, nil
}

// UpdateOrderStatus moves an order to status. Moving to ready frees one
// kitchen slot.
func (r *Registry) UpdateOrderStatus(id string, status model.OrderStatus) (model.Order, error) {
	if !status.Valid() {
		return model.Order{}, invalid("Invalid order status")
	}

	r.mu.Lock()
	o := r.findOrder(id)
	if o == nil {
		r.mu.Unlock()
		return model.Order{}, notFound("order")
	}
	o.Status = status
	if status == model.OrderReady {
		r.setActiveOrders(r.kitchen.ActiveOrders - 1)
	}
	order := o.Clone()
	kitchen := r.kitchen
	r.mu.Unlock()

	metrics.OrdersTotal.WithLabelValues(string(status)).Inc()
	r.publish(notify.OrderUpdate, order)
	if status == model.OrderReady {
		r.publish(notify.KitchenStatus, kitchen)
	}
	return order, nil
}

// ApplyKitchenJitter nudges the wait time and active order count by the
// given deltas, keeps both inside their bounds and broadcasts the result.
func (r *Registry) ApplyKitchenJitter(dWait, dOrders int) model.KitchenStatus {
	r.mu.Lock()
	r.kitchen.AvgWaitTime = model.Clamp(r.kitchen.AvgWaitTime+dWait, model.MinWaitTime, model.MaxWaitTime)
	r.setActiveOrders(r.kitchen.ActiveOrders + dOrders)
	kitchen := r.kitchen
	r.mu.Unlock()

	r.publish(notify.KitchenStatus, kitchen)
	return kitchen
}

// setActiveOrders must be called with r.mu held.
func (r *Registry) setActiveOrders(n int) {
	r.kitchen.ActiveOrders = model.Clamp(n, model.MinActiveOrders, model.MaxActiveOrders)
	r.kitchen.CurrentLoad = model.LoadFor(r.kitchen.ActiveOrders)
	metrics.KitchenActiveOrders.Set(float64(r.kitchen.ActiveOrders))
}

func (r *Registry) menuItem(id string) (model.MenuItem, bool) {
	for _, m := range r.menu {
		if m.ID == id {
			return m, true
		}
	}
	return model.MenuItem{}, false
}
