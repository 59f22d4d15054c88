package services

import (
	"github.com/diewo77/garage-app/internal/models"
	"gorm.io/gorm"
)

// InventoryService keeps part stock consistent with work-order line items:
// attaching consumes stock, detaching and work-order deletion restore it.
// The sufficiency check and the decrement are one conditional UPDATE, so two
// concurrent attachments against the same part cannot both pass a stale
// read and drive stock negative.
type InventoryService struct {
	DB *gorm.DB
}

func NewInventoryService(db *gorm.DB) *InventoryService { return &InventoryService{DB: db} }

// decrementStock decrements iff enough stock remains. RowsAffected == 0
// means either the part is missing or stock is short; a follow-up existence
// check tells the two apart.
func decrementStock(tx *gorm.DB, partID uint, quantity int) error {
	res := tx.Model(&models.Part{}).
		Where("id = ? AND quantity_in_stock >= ?", partID, quantity).
		UpdateColumn("quantity_in_stock", gorm.Expr("quantity_in_stock - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.Part{}).Where("id = ?", partID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}

func incrementStock(tx *gorm.DB, partID uint, quantity int) error {
	return tx.Model(&models.Part{}).Where("id = ?", partID).
		UpdateColumn("quantity_in_stock", gorm.Expr("quantity_in_stock + ?", quantity)).Error
}

// AttachPart creates the line item and consumes stock atomically. item
// carries the caller's price/quantity snapshot.
func (s *InventoryService) AttachPart(item *models.WorkOrderPart) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.WorkOrder{}).Where("id = ?", item.WorkOrderID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := decrementStock(tx, item.PartID, item.Quantity); err != nil {
			return err
		}
		return tx.Create(item).Error
	})
}

// DetachPart deletes the line item and restores its quantity to stock
// atomically.
func (s *InventoryService) DetachPart(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var item models.WorkOrderPart
		if err := tx.First(&item, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		return incrementStock(tx, item.PartID, item.Quantity)
	})
}

// DeleteWorkOrder removes a work order with its line items and restores
// stock for every attached part in the same transaction, so inventory is
// never lost when a work order is discarded.
func (s *InventoryService) DeleteWorkOrder(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var wo models.WorkOrder
		if err := tx.First(&wo, id).Error; err != nil {
			return err
		}
		var parts []models.WorkOrderPart
		if err := tx.Where("work_order_id = ?", id).Find(&parts).Error; err != nil {
			return err
		}
		for _, p := range parts {
			if err := incrementStock(tx, p.PartID, p.Quantity); err != nil {
				return err
			}
		}
		if err := tx.Where("work_order_id = ?", id).Delete(&models.WorkOrderPart{}).Error; err != nil {
			return err
		}
		if err := tx.Where("work_order_id = ?", id).Delete(&models.WorkOrderService{}).Error; err != nil {
			return err
		}
		return tx.Delete(&wo).Error
	})
}
