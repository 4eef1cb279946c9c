package service

import (
	"errors"
	"time"

	"gamification_backend/internal/model"
	"gamification_backend/internal/repository"
)

type EventService struct {
	EventRepo *repository.EventRepository
}

func NewEventService(eventRepo *repository.EventRepository) *EventService {
	return &EventService{EventRepo: eventRepo}
}

type EventRequest struct {
	Name      string          `json:"name" binding:"required"`
	Type      model.EventType `json:"type" binding:"required,oneof=ASSIGNMENT EXAM"`
	CourseID  uint            `json:"courseId"`
	StartDate time.Time       `json:"startDate" binding:"required"`
	EndDate   time.Time       `json:"endDate" binding:"required"`
}

func (s *EventService) CreateEvent(req EventRequest) (*model.Event, error) {
	if !req.EndDate.After(req.StartDate) {
		return nil, errors.New("event end date must be after start date")
	}

	event := &model.Event{
		Name:      req.Name,
		Type:      req.Type,
		CourseID:  req.CourseID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if err := s.EventRepo.Create(event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) UpdateEvent(id uint, req EventRequest) (*model.Event, error) {
	event, err := s.EventRepo.FindByID(id)
	if err != nil {
		return nil, errors.New("event not found")
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, errors.New("event end date must be after start date")
	}

	event.Name = req.Name
	event.Type = req.Type
	event.CourseID = req.CourseID
	event.StartDate = req.StartDate
	event.EndDate = req.EndDate
	if err := s.EventRepo.Update(event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) ListByCourse(courseID uint) ([]model.Event, error) {
	return s.EventRepo.FindByCourse(courseID)
}
