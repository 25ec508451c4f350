package billing

import "time"

// SeedPlans populates the catalog with the launch tiers on first
// startup. It counts before inserting, so repeated calls are no-ops.
// Returns true when plans were inserted.
func (s *Store) SeedPlans() (bool, error) {
	var count int64
	if err := s.db.Model(&Plan{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	now := time.Now()
	free := "Basic features for individual use. Get started for free."
	pro := "Advanced features for professionals and small teams."
	ent := "Comprehensive solutions for large organizations. Contact us for yearly pricing."

	plans := []Plan{
		{Name: "Free Plan", Price: 0.00, Interval: IntervalMonth, Description: &free, IsActive: true, StartDate: now},
		{Name: "Pro Plan", Price: 49.99, Interval: IntervalMonth, Description: &pro, IsActive: true, StartDate: now},
		{Name: "Enterprise Plan", Price: 299.99, Interval: IntervalMonth, Description: &ent, IsActive: true, StartDate: now},
	}
	if err := s.db.Create(&plans).Error; err != nil {
		return false, err
	}
	return true, nil
}
