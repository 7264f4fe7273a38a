package registry

import (
	"context"
	"fmt"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"

	"segment-service/pkg/config"
	"segment-service/pkg/logger"
)

// ServiceRegistry registers this instance into etcd under a leased key so
// gateways can discover live segment-service nodes.
type ServiceRegistry struct {
	client      *clientv3.Client
	serviceName string
	serviceID   string
	serviceAddr string
	ttl         int64
	leaseID     clientv3.LeaseID
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewServiceRegistry creates a registry client from the service_registry config section.
func NewServiceRegistry(cfg config.ServiceRegistryConfig, serviceAddr string) (*ServiceRegistry, error) {
	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}
	client, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: dialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create etcd client: %w", err)
	}

	ttl := int64(cfg.TTL.Seconds())
	if ttl <= 0 {
		ttl = 15
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &ServiceRegistry{
		client:      client,
		serviceName: cfg.ServiceName,
		serviceID:   cfg.ServiceID,
		serviceAddr: serviceAddr,
		ttl:         ttl,
		ctx:         ctx,
		cancel:      cancel,
	}, nil
}

// Register writes the instance key and keeps its lease alive until Close.
func (r *ServiceRegistry) Register() error {
	lease, err := r.client.Grant(r.ctx, r.ttl)
	if err != nil {
		return fmt.Errorf("failed to grant lease: %w", err)
	}
	r.leaseID = lease.ID

	key := fmt.Sprintf("/services/%s/%s", r.serviceName, r.serviceID)
	if _, err := r.client.Put(r.ctx, key, r.serviceAddr, clientv3.WithLease(lease.ID)); err != nil {
		return fmt.Errorf("failed to put service key: %w", err)
	}

	keepAlive, err := r.client.KeepAlive(r.ctx, lease.ID)
	if err != nil {
		return fmt.Errorf("failed to keep lease alive: %w", err)
	}

	go func() {
		for range keepAlive {
		}
		logger.Warnf("etcd keepalive channel closed service=%s id=%s", r.serviceName, r.serviceID)
	}()

	logger.Infof("Service registered name=%s id=%s addr=%s ttl=%ds", r.serviceName, r.serviceID, r.serviceAddr, r.ttl)
	return nil
}

// Close revokes the lease and shuts the etcd client down.
func (r *ServiceRegistry) Close() {
	r.cancel()
	if r.leaseID != 0 {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_, _ = r.client.Revoke(ctx, r.leaseID)
	}
	_ = r.client.Close()
}
