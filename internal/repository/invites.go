package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tavernshift/backend/internal/domain"
)

func inviteKey(token string) string {
	return fmt.Sprintf("invite_%s", token)
}

// CreateInviteLink 将邀请链接写入 redis，过期后由 redis 自动清除
func (r *Repository) CreateInviteLink(link *domain.InviteLink) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Redis.OperationExpiration)*time.Second)
	defer cancel()

	data, err := json.Marshal(link)
	if err != nil {
		return err
	}

	if err := r.rdb.Set(ctx, inviteKey(link.Token), data, time.Until(link.ExpiresAt)).Err(); err != nil {
		return err
	}

	return nil
}

// GetInviteLink 在链接不存在或已过期时返回 NotFound
func (r *Repository) GetInviteLink(token string) (*domain.InviteLink, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Redis.OperationExpiration)*time.Second)
	defer cancel()

	data, err := r.rdb.Get(ctx, inviteKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.NewNotFoundError("邀请链接不存在或已过期")
		}
		return nil, err
	}

	return decodeInviteLink(data, time.Now())
}

// decodeInviteLink 在 now 到达 ExpiresAt 后返回 NotFound
func decodeInviteLink(data []byte, now time.Time) (*domain.InviteLink, error) {
	link := &domain.InviteLink{}
	if err := json.Unmarshal(data, link); err != nil {
		return nil, err
	}

	if !now.Before(link.ExpiresAt) {
		return nil, domain.NewNotFoundError("邀请链接不存在或已过期")
	}

	return link, nil
}
