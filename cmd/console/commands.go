package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/mmeshcher/inventory-console/internal/access"
	"github.com/mmeshcher/inventory-console/internal/console"
	"github.com/mmeshcher/inventory-console/internal/model"
	"github.com/mmeshcher/inventory-console/internal/purchaseorder"
	"github.com/mmeshcher/inventory-console/internal/report"
	"github.com/mmeshcher/inventory-console/internal/store"
)

var errUsage = errors.New("usage: console nav | dashboard [-xlsx file] | po list|approve|decline|receive | notifications [read <id>]")

type app struct {
	actions *console.Actions
	engine  *purchaseorder.Engine
	out     io.Writer
}

func (a *app) state() store.State {
	return a.actions.Store().State()
}

// run открывает сессию и выполняет команду.
func (a *app) run(ctx context.Context, email, password string, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	if email == "" || password == "" {
		return errors.New("CONSOLE_EMAIL and CONSOLE_PASSWORD are required")
	}

	if _, err := a.actions.Login(ctx, email, password); err != nil {
		return err
	}

	switch args[0] {
	case "nav":
		return a.nav(ctx)
	case "dashboard":
		return a.dashboard(ctx, args[1:])
	case "po":
		return a.purchaseOrders(ctx, args[1:])
	case "notifications":
		return a.notifications(ctx, args[1:])
	}
	return errUsage
}

func (a *app) currentUser() (model.User, error) {
	u := a.state().CurrentUser
	if u == nil {
		return model.User{}, errors.New("no active session")
	}
	return *u, nil
}

func (a *app) nav(ctx context.Context) error {
	u, err := a.currentUser()
	if err != nil {
		return err
	}

	// Ошибка загрузки уведомлений не прерывает команду.
	_, _ = a.actions.FetchNotifications(ctx)

	fmt.Fprintf(a.out, "%s <%s> role=%s unread=%d\n", u.Name, u.Email, u.Role, store.UnreadNotifications(a.state()))
	for _, s := range access.Sections(u.Role) {
		fmt.Fprintf(a.out, "  %-16s %s\n", s.Title, s.Path)
	}
	return nil
}

func (a *app) dashboard(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	fs.SetOutput(a.out)
	xlsx := fs.String("xlsx", "", "write the dashboard to an xlsx file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	stats, err := a.actions.FetchDashboardStats(ctx)
	if err != nil {
		return err
	}

	s := stats.Summary
	fmt.Fprintf(a.out, "products: %d  units: %d  value: %s\n", s.ProductCount, s.TotalUnits, s.TotalValue.StringFixed(2))
	fmt.Fprintf(a.out, "low stock: %d  critical: %d\n", s.LowStockCount, s.CriticalCount)

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BRAND\tVALUE\tUNITS")
	for _, b := range stats.ByBrand {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", b.Brand, b.Value.StringFixed(2), b.Units)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if *xlsx == "" {
		return nil
	}

	f, err := os.Create(*xlsx)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := report.WriteDashboard(f, stats); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	fmt.Fprintf(a.out, "report written to %s\n", *xlsx)
	return nil
}

func (a *app) purchaseOrders(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	if args[0] == "list" {
		return a.listPurchaseOrders(ctx)
	}
	if len(args) < 2 {
		return errUsage
	}

	u, err := a.currentUser()
	if err != nil {
		return err
	}
	id := args[1]

	switch args[0] {
	case "approve":
		supplierEmail := ""
		if len(args) > 2 {
			supplierEmail = args[2]
		}
		po, err := a.engine.Approve(ctx, u, id, supplierEmail)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s approved by %s\n", displayNumber(po), po.ApprovedBy)
		return nil

	case "decline":
		po, err := a.engine.Decline(ctx, u, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s declined\n", displayNumber(po))
		return nil

	case "receive":
		rep, err := a.engine.Receive(ctx, u, id, nil)
		if rep != nil {
			a.printReceiveReport(rep)
		}
		return err
	}
	return errUsage
}

func (a *app) listPurchaseOrders(ctx context.Context) error {
	if err := a.actions.FetchPurchaseOrderPage(ctx); err != nil {
		return err
	}

	s := a.state()
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNUMBER\tSUPPLIER\tSTATUS\tRECEIVED\tITEMS")
	for _, po := range s.PurchaseOrders.Items() {
		supplier := po.Supplier
		if sp, ok := s.Suppliers.Get(po.Supplier); ok {
			supplier = sp.CompanyName
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\t%d\n", po.ID, po.PONumber, supplier, po.Status, po.ReceivingStatus, len(po.Items))
	}
	return tw.Flush()
}

func (a *app) printReceiveReport(rep *purchaseorder.ReceiveReport) {
	s := a.state()
	for _, it := range rep.Items {
		name := it.ProductID
		if p, ok := s.Products.Get(it.ProductID); ok {
			name = p.Name
		}
		if it.Err != nil {
			fmt.Fprintf(a.out, "  FAIL %s: %v\n", name, it.Err)
			continue
		}
		fmt.Fprintf(a.out, "  ok   %s: +%d, on hand %d\n", name, it.Quantity, it.QuantityOnHand)
	}
	if rep.StatusErr != nil {
		fmt.Fprintf(a.out, "  FAIL status update: %v\n", rep.StatusErr)
	}
	if rep.OK() && rep.PurchaseOrder != nil {
		fmt.Fprintf(a.out, "%s received\n", displayNumber(*rep.PurchaseOrder))
	}
}

func (a *app) notifications(ctx context.Context, args []string) error {
	if len(args) == 2 && args[0] == "read" {
		n, err := a.actions.MarkNotificationRead(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s marked read\n", n.ID)
		return nil
	}
	if len(args) != 0 {
		return errUsage
	}

	list, err := a.actions.FetchNotifications(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tREAD\tCREATED\tTITLE")
	for _, n := range list {
		fmt.Fprintf(tw, "%s\t%t\t%s\t%s\n", n.ID, n.Read(), n.CreatedAt.Format("2006-01-02 15:04"), n.Title)
	}
	return tw.Flush()
}

func displayNumber(po model.PurchaseOrder) string {
	if po.PONumber != "" {
		return po.PONumber
	}
	return po.ID
}
