package service

import (
	"context"
	"errors"

	"asistentas-gateway/internal/dto"
	"asistentas-gateway/internal/pkg/logger"
)

var ErrLogNotFound = errors.New("log not found")

type IAdminService interface {
	GetSystemLogs(ctx context.Context, filter logger.LogFilter) ([]*dto.LogListResponse, error)
	GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error)
}

type adminService struct {
	logger logger.ILogger
}

func NewAdminService(log logger.ILogger) IAdminService {
	return &adminService{logger: log}
}

func (s *adminService) GetSystemLogs(ctx context.Context, filter logger.LogFilter) ([]*dto.LogListResponse, error) {
	logs, err := s.logger.GetLogs(filter)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.LogListResponse, 0, len(logs))
	for _, l := range logs {
		res = append(res, &dto.LogListResponse{
			Id:        l.Id,
			Level:     l.Level,
			Module:    l.Module,
			Message:   l.Message,
			Timestamp: l.Timestamp,
		})
	}
	return res, nil
}

func (s *adminService) GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error) {
	l, err := s.logger.GetLogById(logId)
	if errors.Is(err, logger.ErrLogNotFound) {
		return nil, ErrLogNotFound
	}
	if err != nil {
		return nil, err
	}

	return &dto.LogDetailResponse{
		LogListResponse: dto.LogListResponse{
			Id:        l.Id,
			Level:     l.Level,
			Module:    l.Module,
			Message:   l.Message,
			Timestamp: l.Timestamp,
		},
		Details: l.Details,
	}, nil
}
