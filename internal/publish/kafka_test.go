package publish

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pig-logistics/internal/domain"
	"pig-logistics/internal/session"
	"pig-logistics/internal/snapshot"
)

func testSession() *session.Session {
	ds := &domain.Dataset{
		Farms: []domain.Farm{{ID: "F1", Lat: 41.95, Lon: 2.20}},
		Activity: []domain.TripRecord{
			{Day: 2, TruckID: "T1", Stops: []string{"F1"}, PigsTotal: 100, WeightTotal: 9000, TripCost: 50, Revenue: 200},
		},
	}
	return session.New(ds, session.Options{Generator: snapshot.FixedGenerator{}})
}

func TestPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var ev DayEvent
		if err := json.Unmarshal(val, &ev); err != nil {
			return err
		}
		if ev.Day != 3 || ev.SessionID != "s-1" {
			return errors.New("unexpected event")
		}
		return nil
	})

	p := NewPublisherWithProducer(producer, "pig-logistics.days", nil)
	require.NoError(t, p.Publish(DayEvent{SessionID: "s-1", Day: 3}))
	require.NoError(t, p.Close())
}

func TestPublisher_PublishError(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewPublisherWithProducer(producer, "pig-logistics.days", nil)
	err := p.Publish(DayEvent{Day: 1})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

func TestPublisher_AttachPublishesRecomputes(t *testing.T) {
	sess := testSession()
	producer := mocks.NewSyncProducer(t, nil)

	var events []DayEvent
	capture := func(val []byte) error {
		var ev DayEvent
		if err := json.Unmarshal(val, &ev); err != nil {
			return err
		}
		events = append(events, ev)
		return nil
	}
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(capture)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(capture)

	p := NewPublisherWithProducer(producer, "pig-logistics.days", nil)
	detach := p.Attach(sess)

	sess.MarkReady()
	_, err := sess.SelectDay(2)
	require.NoError(t, err)

	detach()
	_, err = sess.SelectDay(3)
	require.NoError(t, err)

	require.NoError(t, p.Close())
	require.Len(t, events, 2)
	assert.Equal(t, session.TriggerReady, events[0].Trigger)
	assert.Equal(t, 1, events[0].Day)
	assert.True(t, events[0].RestDay)
	assert.Equal(t, session.TriggerSelect, events[1].Trigger)
	assert.Equal(t, 2, events[1].Day)
	assert.Equal(t, 100, events[1].Metrics.PigsDelivered)
	assert.Equal(t, sess.ID().String(), events[1].SessionID)
}

func TestPublisher_AttachLogsFailures(t *testing.T) {
	sess := testSession()
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewPublisherWithProducer(producer, "pig-logistics.days", nil)
	defer p.Attach(sess)()

	_, err := sess.SelectDay(2)
	require.NoError(t, err)
	require.NoError(t, p.Close())
}
