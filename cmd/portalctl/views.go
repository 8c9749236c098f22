package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/kuss/selfreliance-portal/pkg/portal"
	"github.com/kuss/selfreliance-portal/pkg/session"
)

const viewTimeout = 15 * time.Second

// loginView renders when no session is active.
type loginView struct{}

func (loginView) Name() string { return "login" }

func (loginView) Render(_ session.Snapshot, w io.Writer) error {
	fmt.Fprintln(w, "Not signed in. Use: login <email> <password>  or  signup <name> <email> <password>")
	return nil
}

// loadingView renders while session restore is still in flight.
type loadingView struct{}

func (loadingView) Name() string { return "loading" }

func (loadingView) Render(_ session.Snapshot, w io.Writer) error {
	fmt.Fprintln(w, "Restoring session...")
	return nil
}

// memberView is the fallback dashboard for roles without a dedicated surface.
type memberView struct{}

func (memberView) Name() string { return "member" }

func (memberView) Render(snap session.Snapshot, w io.Writer) error {
	fmt.Fprintf(w, "Welcome, %s (%s, ward %s).\n", snap.User.Name, snap.User.Role, snap.User.Ward)
	fmt.Fprintln(w, "No dashboard is available for this role yet. Use 'logout' to sign out.")
	return nil
}

// instructorView lists the instructor's groups with enrollment and progress.
type instructorView struct {
	client *portal.Client
}

func (instructorView) Name() string { return "instructor" }

func (v instructorView) Render(snap session.Snapshot, w io.Writer) error {
	ctx, cancel := context.WithTimeout(context.Background(), viewTimeout)
	defer cancel()

	groups, err := v.client.MyGroups(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Groups taught by %s:\n", snap.User.Name)
	if len(groups) == 0 {
		fmt.Fprintln(w, "  (none)")
		return nil
	}
	return printGroups(w, groups)
}

// studentView lists current enrollments and groups still open for joining.
type studentView struct {
	client *portal.Client
}

func (studentView) Name() string { return "student" }

func (v studentView) Render(snap session.Snapshot, w io.Writer) error {
	ctx, cancel := context.WithTimeout(context.Background(), viewTimeout)
	defer cancel()

	enrollments, err := v.client.MyEnrollments(ctx)
	if err != nil {
		return err
	}
	available, err := v.client.AvailableGroups(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Enrollments for %s:\n", snap.User.Name)
	if len(enrollments) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, e := range enrollments {
		fmt.Fprintf(w, "  group %s (joined %s)\n", e.GroupID, e.JoinedAt)
	}

	fmt.Fprintln(w, "Open groups:")
	if len(available) == 0 {
		fmt.Fprintln(w, "  (none)")
		return nil
	}
	return printGroups(w, available)
}

// leadershipView shows the stake-wide per-ward roll-up.
type leadershipView struct {
	client *portal.Client
}

func (leadershipView) Name() string { return "leadership" }

func (v leadershipView) Render(snap session.Snapshot, w io.Writer) error {
	ctx, cancel := context.WithTimeout(context.Background(), viewTimeout)
	defer cancel()

	report, err := v.client.StakeReports(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Stake report for %s (%s):\n", snap.User.Name, snap.User.Role)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  WARD\tGROUPS\tACTIVE\tENROLLED\tATTENDANCE\tPROGRESS")
	for _, ward := range report.Wards {
		fmt.Fprintf(tw, "  %s\t%d\t%d\t%d\t%.0f%%\t%.0f%%\n",
			ward.Ward, ward.Groups, ward.ActiveGroups, ward.Enrolled,
			ward.AttendanceRate, ward.AverageProgress)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Totals: %d groups, %d enrolled.\n", report.TotalGroups, report.TotalEnrolled)
	return nil
}

func printGroups(w io.Writer, groups []portal.Group) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  ID\tNAME\tWARD\tSTUDENTS\tSTATUS\tPROGRESS")
	for _, g := range groups {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%d/%d\t%s\t%.0f%%\n",
			g.ID, g.Name, g.Ward, g.CurrentStudents, g.MaxStudents, g.Status, g.Progress)
	}
	return tw.Flush()
}
