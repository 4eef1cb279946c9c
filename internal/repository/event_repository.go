package repository

import (
	"gamification_backend/internal/model"

	"gorm.io/gorm"
)

// EventRepository 处理课程活动的数据库操作
type EventRepository struct {
	DB *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{DB: db}
}

func (r *EventRepository) Create(event *model.Event) error {
	return r.DB.Create(event).Error
}

func (r *EventRepository) FindByID(id uint) (*model.Event, error) {
	var event model.Event
	err := r.DB.First(&event, id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) Update(event *model.Event) error {
	return r.DB.Save(event).Error
}

func (r *EventRepository) FindByCourse(courseID uint) ([]model.Event, error) {
	var events []model.Event
	err := r.DB.Where("course_id = ?", courseID).Order("start_date").Find(&events).Error
	return events, err
}
