package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gosimple/slug"

	"github.com/anicoll/vrm-integration/internal/pkg/model"
)

const fleetTopic = "vrm/fleet/state"

// Write publishes a retained state document per site plus the fleet
// summary, so late subscribers always see the latest reading.
func (s *service) Write(ctx context.Context, result *model.CycleResult) error {
	for _, snapshot := range result.Snapshots {
		topic := fmt.Sprintf("vrm/%s/state", slug.Make(snapshot.Name()))
		if err := s.publish(topic, snapshot); err != nil {
			return err
		}
	}
	return s.publish(fleetTopic, result.Summary)
}

func (s *service) publish(topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	token := s.client.Publish(topic, 1, true, data)
	res := token.WaitTimeout(time.Second * 10)
	if res {
		return nil
	}
	if err := token.Error(); err != nil {
		return err
	}
	return nil
}
