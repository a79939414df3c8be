// Copyright 2023 UMH Systems GmbH
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package services

import (
	"context"

	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/models"
	"github.com/united-manufacturing-hub/dyeing-dashboard/pkg/datamodel"
	"golang.org/x/sync/errgroup"
)

var statusVariants = []string{datamodel.VariantDesktop, datamodel.VariantMobile}

// mobileStatusColumns is the narrow projection. expected_finish_time is left
// out of the list view.
var mobileStatusColumns = []string{"machine_name", "state", "batch_no", "steps"}

// MachineStatus builds chart 2. Its period keys are the desktop and mobile
// projections.
func (a *Assembler) MachineStatus(ctx context.Context) (datamodel.ChartPeriodDict, error) {
	var desktop, mobile *datamodel.Table
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := a.query(gctx, TemplateMachineStatusDesktop, nil)
		if err = tolerate(datamodel.Chart2Key, datamodel.VariantDesktop, err); err != nil {
			return err
		}
		desktop = t
		return nil
	})
	g.Go(func() error {
		t, err := a.query(gctx, TemplateMachineStatusMobile, nil)
		if err = tolerate(datamodel.Chart2Key, datamodel.VariantMobile, err); err != nil {
			return err
		}
		mobile = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return BuildMachineStatus(desktop, mobile, a.language), nil
}

// BuildMachineStatus renames the desktop table and composes the mobile
// projection. Unusable inputs give empty tables.
func BuildMachineStatus(desktop, mobile *datamodel.Table, language string) datamodel.ChartPeriodDict {
	renames := models.StatusColumnRenames(language)
	out := datamodel.ChartPeriodDict{}

	if desktop != nil {
		out[datamodel.VariantDesktop] = datamodel.PeriodTables{datamodel.RoleAllMachine: desktop.Rename(renames)}
	}
	if m, err := mobileStatus(mobile); err == nil {
		out[datamodel.VariantMobile] = datamodel.PeriodTables{datamodel.RoleAllMachine: m.Rename(renames)}
	} else if mobile != nil {
		_ = tolerate(datamodel.Chart2Key, datamodel.VariantMobile, err)
	}
	out.EnsurePeriods(statusVariants, datamodel.RoleAllMachine)
	return out
}

func mobileStatus(raw *datamodel.Table) (*datamodel.Table, error) {
	if raw == nil {
		return nil, ErrEmptyData
	}
	if err := requireColumns(raw, "machine_name", "state", "batch_no", "total_steps_cnt", "current_step_cnt"); err != nil {
		return nil, err
	}
	withSteps := raw.WithColumn("steps", func(r datamodel.Row) datamodel.Cell {
		return datamodel.Text(r.Get("total_steps_cnt").String() + "/" + r.Get("current_step_cnt").String())
	})
	return withSteps.Select(mobileStatusColumns...)
}
