package redis

import (
	"context"

	"github.com/mohitkumar/nodebridge/logger"
	"github.com/mohitkumar/nodebridge/model"
	"github.com/mohitkumar/nodebridge/persistence"
	"github.com/mohitkumar/nodebridge/util"
	"go.uber.org/zap"
)

const OVERRIDE_CF string = "OVERRIDE"

type redisOverrideStorage struct {
	*baseDao
	nodeInfoEncDec util.EncoderDecoder[persistence.NodeInfo]
}

var _ persistence.OverrideStorage = new(redisOverrideStorage)

func NewRedisOverrideStorage(conf Config) *redisOverrideStorage {
	return &redisOverrideStorage{
		baseDao:        newBaseDao(conf),
		nodeInfoEncDec: util.NewJsonEncoderDecoder[persistence.NodeInfo](),
	}
}

func (ro *redisOverrideStorage) LoadOverrides() ([]model.ParameterOverride, error) {
	key := ro.baseDao.getNamespaceKey(OVERRIDE_CF)
	ctx := context.Background()
	entries, err := ro.redisClient.HGetAll(ctx, key).Result()
	if err != nil {
		logger.Error("error in loading overrides", zap.Error(err))
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	doc := &persistence.OverrideDocument{
		NodeInfo: make(map[model.NodeId]persistence.NodeInfo, len(entries)),
	}
	for id, data := range entries {
		info, err := ro.nodeInfoEncDec.Decode([]byte(data))
		if err != nil {
			logger.Error("skipping undecodable override record", zap.String("node", id), zap.Error(err))
			continue
		}
		doc.NodeInfo[model.NodeId(id)] = *info
	}
	return persistence.ExpandDocument(doc), nil
}

func (ro *redisOverrideStorage) SaveGroup(group *model.ParameterGroup) error {
	info := persistence.GroupToNodeInfo(group)
	data, err := ro.nodeInfoEncDec.Encode(info)
	if err != nil {
		return err
	}
	key := ro.baseDao.getNamespaceKey(OVERRIDE_CF)
	ctx := context.Background()
	if err := ro.redisClient.HSet(ctx, key, []string{string(group.NodeId), string(data)}).Err(); err != nil {
		logger.Error("error in saving override", zap.String("node", string(group.NodeId)), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (ro *redisOverrideStorage) DeleteGroup(nodeId model.NodeId) error {
	key := ro.baseDao.getNamespaceKey(OVERRIDE_CF)
	ctx := context.Background()
	if err := ro.redisClient.HDel(ctx, key, string(nodeId)).Err(); err != nil {
		logger.Error("error in deleting override", zap.String("node", string(nodeId)), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}
