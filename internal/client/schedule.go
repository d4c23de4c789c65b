package client

import (
	"context"

	enumspb "go.temporal.io/api/enums/v1"
	sdkclient "go.temporal.io/sdk/client"

	"flowdeck/internal/domain"
)

func (t *Temporal) ListSchedules(ctx context.Context, req ListRequest) (domain.SchedulePage, error) {
	c, err := t.conn(req.Namespace)
	if err != nil {
		return domain.SchedulePage{}, err
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	iter, err := c.ScheduleClient().List(ctx, sdkclient.ScheduleListOptions{
		PageSize: pageSize,
		Query:    req.Query,
	})
	if err != nil {
		return domain.SchedulePage{}, wrap("list schedules", err)
	}

	// The iterator pages transparently; stop at pageSize so one huge
	// namespace cannot stall the refresh.
	var page domain.SchedulePage
	for iter.HasNext() && len(page.Items) < pageSize {
		entry, err := iter.Next()
		if err != nil {
			return domain.SchedulePage{}, wrap("list schedules", err)
		}
		s := domain.Schedule{
			ScheduleID:    entry.ID,
			WorkflowType:  entry.WorkflowType.Name,
			Paused:        entry.Paused,
			Spec:          describeScheduleSpec(entry.Spec),
			RecentActions: len(entry.RecentActions),
			Notes:         entry.Notes,
		}
		if len(entry.NextActionTimes) > 0 {
			s.NextRunTime = entry.NextActionTimes[0]
		}
		if n := len(entry.RecentActions); n > 0 {
			s.LastRunTime = entry.RecentActions[n-1].ActualTime
		}
		page.Items = append(page.Items, s)
	}
	return page, nil
}

func (t *Temporal) DescribeSchedule(ctx context.Context, namespace, scheduleID string) (domain.Schedule, error) {
	c, err := t.conn(namespace)
	if err != nil {
		return domain.Schedule{}, err
	}
	desc, err := c.ScheduleClient().GetHandle(ctx, scheduleID).Describe(ctx)
	if err != nil {
		return domain.Schedule{}, wrap("describe schedule", err)
	}

	s := domain.Schedule{
		ScheduleID:    scheduleID,
		Spec:          describeScheduleSpec(desc.Schedule.Spec),
		RecentActions: len(desc.Info.RecentActions),
	}
	if st := desc.Schedule.State; st != nil {
		s.Paused = st.Paused
		s.Notes = st.Note
	}
	if wa, ok := desc.Schedule.Action.(*sdkclient.ScheduleWorkflowAction); ok {
		s.TaskQueue = wa.TaskQueue
		if name, ok := wa.Workflow.(string); ok {
			s.WorkflowType = name
		}
	}
	if len(desc.Info.NextActionTimes) > 0 {
		s.NextRunTime = desc.Info.NextActionTimes[0]
	}
	if n := len(desc.Info.RecentActions); n > 0 {
		s.LastRunTime = desc.Info.RecentActions[n-1].ActualTime
	}
	return s, nil
}

func (t *Temporal) PauseSchedule(ctx context.Context, namespace, scheduleID string, pause bool, note string) error {
	c, err := t.conn(namespace)
	if err != nil {
		return err
	}
	handle := c.ScheduleClient().GetHandle(ctx, scheduleID)
	if pause {
		return wrap("pause schedule", handle.Pause(ctx, sdkclient.SchedulePauseOptions{Note: note}))
	}
	return wrap("unpause schedule", handle.Unpause(ctx, sdkclient.ScheduleUnpauseOptions{Note: note}))
}

func (t *Temporal) TriggerSchedule(ctx context.Context, namespace, scheduleID string) error {
	c, err := t.conn(namespace)
	if err != nil {
		return err
	}
	handle := c.ScheduleClient().GetHandle(ctx, scheduleID)
	// Manual triggers always fire, regardless of the schedule's own policy.
	return wrap("trigger schedule", handle.Trigger(ctx, sdkclient.ScheduleTriggerOptions{
		Overlap: enumspb.SCHEDULE_OVERLAP_POLICY_ALLOW_ALL,
	}))
}

func (t *Temporal) DeleteSchedule(ctx context.Context, namespace, scheduleID string) error {
	c, err := t.conn(namespace)
	if err != nil {
		return err
	}
	return wrap("delete schedule", c.ScheduleClient().GetHandle(ctx, scheduleID).Delete(ctx))
}
